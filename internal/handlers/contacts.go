package handlers

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"contactbook/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	errInvalidContactID = "invalid contact id"
	errNameRequired     = "name is required"
	errInvalidBodyPref  = "invalid body: "
)

// JSON payload for creating a contact. The photo only ever arrives as an
// uploaded file, never as a JSON field.
type createContactRequest struct {
	Name  string  `json:"name" binding:"required"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// JSON payload for a partial update; absent fields stay nil.
type updateContactRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// contactID parses the :id route param. Writes a 400 envelope and returns
// false on anything non-numeric.
func (h *Handler) contactID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.respondError(c, http.StatusBadRequest, errInvalidContactID)
		return 0, false
	}
	return id, true
}

// savePhoto stores an uploaded file under a generated unique filename and
// returns that filename.
func (h *Handler) savePhoto(c *gin.Context, file *multipart.FileHeader) (string, error) {
	name := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadsDir, name)); err != nil {
		return "", err
	}
	return name, nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// optionalFormValue returns a pointer to the form value when the field was
// present in the submitted form at all.
func optionalFormValue(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

// @Summary      Create contact
// @Tags         contacts
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Param        body  body  createContactRequest  true  "Contact fields (or multipart form with optional photo file)"
// @Success      201  {object}  models.Contact
// @Failure      400  {object}  errorEnvelope
// @Failure      401  {object}  errorEnvelope
// @Router       /api/v1/contacts [post]
// @Security     BearerAuth
func (h *Handler) createContact(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		h.respondError(c, http.StatusUnauthorized, "missing authenticated user")
		return
	}

	var in service.CreateContactInput
	if isMultipart(c) {
		in.Name = c.PostForm("name")
		if strings.TrimSpace(in.Name) == "" {
			h.respondError(c, http.StatusBadRequest, errNameRequired)
			return
		}
		in.Email = optionalFormValue(c, "email")
		in.Phone = optionalFormValue(c, "phone")

		if file, err := c.FormFile("photo"); err == nil {
			name, err := h.savePhoto(c, file)
			if err != nil {
				h.respondServiceError(c, err, "contact_photo_save_failed")
				return
			}
			in.Photo = &name
		}
	} else {
		var req createContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondError(c, http.StatusBadRequest, errInvalidBodyPref+err.Error())
			return
		}
		in.Name = req.Name
		in.Email = req.Email
		in.Phone = req.Phone
	}

	contact, err := h.services.Contacts.Create(c.Request.Context(), actor, in)
	if err != nil {
		h.respondServiceError(c, err, "contact_create_failed", "owner_id", actor.ID)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

// @Summary      List contacts
// @Description  Non-admins see only their own contacts. Admins may pass all=true to see everyone's.
// @Tags         contacts
// @Produce      json
// @Param        page       query  int     false  "Page number (default 1)"
// @Param        limit      query  int     false  "Page size (default 10)"
// @Param        search     query  string  false  "Substring match over name/email/phone"
// @Param        sortBy     query  string  false  "name or createdAt (default createdAt)"
// @Param        sortOrder  query  string  false  "ASC or DESC (default DESC)"
// @Param        all        query  string  false  "Admin only: true/1 to list all owners"
// @Success      200  {object}  service.ContactPage
// @Failure      401  {object}  errorEnvelope
// @Router       /api/v1/contacts [get]
// @Security     BearerAuth
func (h *Handler) listContacts(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		h.respondError(c, http.StatusUnauthorized, "missing authenticated user")
		return
	}

	q := service.ContactQuery{
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	// Invalid numbers fall back to defaults rather than erroring.
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		q.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		q.Limit = v
	}
	if raw, exists := c.GetQuery("all"); exists {
		q.All = raw
	}

	page, err := h.services.Contacts.List(c.Request.Context(), actor, q)
	if err != nil {
		h.respondServiceError(c, err, "contact_list_failed", "actor_id", actor.ID)
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary      Get a single contact
// @Tags         contacts
// @Produce      json
// @Param        id  path  int  true  "Contact ID"
// @Success      200  {object}  models.Contact
// @Failure      400  {object}  errorEnvelope
// @Failure      401  {object}  errorEnvelope
// @Failure      403  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /api/v1/contacts/{id} [get]
// @Security     BearerAuth
func (h *Handler) getContact(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		h.respondError(c, http.StatusUnauthorized, "missing authenticated user")
		return
	}
	id, ok := h.contactID(c)
	if !ok {
		return
	}

	contact, err := h.services.Contacts.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.respondServiceError(c, err, "contact_get_failed", "contact_id", id)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// @Summary      Update a contact
// @Description  Partial update: only fields present in the body are applied.
// @Tags         contacts
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Param        id    path  int                   true  "Contact ID"
// @Param        body  body  updateContactRequest  true  "Fields to change"
// @Success      200  {object}  models.Contact
// @Failure      400  {object}  errorEnvelope
// @Failure      401  {object}  errorEnvelope
// @Failure      403  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /api/v1/contacts/{id} [patch]
// @Security     BearerAuth
func (h *Handler) updateContact(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		h.respondError(c, http.StatusUnauthorized, "missing authenticated user")
		return
	}
	id, ok := h.contactID(c)
	if !ok {
		return
	}

	var in service.UpdateContactInput
	if isMultipart(c) {
		in.Name = optionalFormValue(c, "name")
		in.Email = optionalFormValue(c, "email")
		in.Phone = optionalFormValue(c, "phone")

		if file, err := c.FormFile("photo"); err == nil {
			name, err := h.savePhoto(c, file)
			if err != nil {
				h.respondServiceError(c, err, "contact_photo_save_failed")
				return
			}
			in.Photo = &name
			in.PhotoSet = true
		}
	} else {
		var req updateContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondError(c, http.StatusBadRequest, errInvalidBodyPref+err.Error())
			return
		}
		in.Name = req.Name
		in.Email = req.Email
		in.Phone = req.Phone
	}

	contact, err := h.services.Contacts.Update(c.Request.Context(), actor, id, in)
	if err != nil {
		h.respondServiceError(c, err, "contact_update_failed", "contact_id", id)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// @Summary      Delete a contact
// @Tags         contacts
// @Param        id  path  int  true  "Contact ID"
// @Success      204  "deleted"
// @Failure      400  {object}  errorEnvelope
// @Failure      401  {object}  errorEnvelope
// @Failure      403  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /api/v1/contacts/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteContact(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		h.respondError(c, http.StatusUnauthorized, "missing authenticated user")
		return
	}
	id, ok := h.contactID(c)
	if !ok {
		return
	}

	if err := h.services.Contacts.Delete(c.Request.Context(), actor, id); err != nil {
		h.respondServiceError(c, err, "contact_delete_failed", "contact_id", id)
		return
	}
	c.Status(http.StatusNoContent)
}
