package ai

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/server/middleware"
	"quickai-backend/internal/shared/server/respond"
)

// maxUploadSize bounds multipart request bodies. Slightly above the resume
// cap so the size violation surfaces as the capability's own message.
const maxUploadSize = 12 << 20

// Handler exposes the six AI operations over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the AI operation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	ai := rg.Group("/ai")
	ai.POST("/generate-article", capabilityTag("article"), h.generateArticle)
	ai.POST("/generate-blog-title", capabilityTag("blogTitle"), h.generateBlogTitle)
	ai.POST("/generate-image", capabilityTag("image"), h.generateImage)
	ai.POST("/remove-image-background", capabilityTag("removal"), h.removeBackground)
	ai.POST("/remove-image-object", capabilityTag("removal"), h.removeObject)
	ai.POST("/resume-review", capabilityTag("resumeReview"), h.resumeReview)
}

// capabilityTag labels the request for the access log.
func capabilityTag(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("capability", name)
		c.Next()
	}
}

type generateArticleRequest struct {
	Prompt string `json:"prompt"`
	Length int    `json:"length"`
}

func (h *Handler) generateArticle(c *gin.Context) {
	ent, ok := middleware.EntitlementFromContext(c)
	if !ok {
		respond.Failure(c, http.StatusUnauthorized, "Login required")
		return
	}

	var req generateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Failure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Svc.GenerateArticle(c.Request.Context(), ent, req.Prompt, req.Length)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OKWithCredits(c, res.Content, res.Remaining)
}

type generateBlogTitleRequest struct {
	Prompt string `json:"prompt"`
}

func (h *Handler) generateBlogTitle(c *gin.Context) {
	ent, ok := middleware.EntitlementFromContext(c)
	if !ok {
		respond.Failure(c, http.StatusUnauthorized, "Login required")
		return
	}

	var req generateBlogTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Failure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Svc.GenerateBlogTitle(c.Request.Context(), ent, req.Prompt)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OKWithCredits(c, res.Content, res.Remaining)
}

type generateImageRequest struct {
	Prompt  string `json:"prompt"`
	Publish bool   `json:"publish"`
}

func (h *Handler) generateImage(c *gin.Context) {
	ent, ok := middleware.EntitlementFromContext(c)
	if !ok {
		respond.Failure(c, http.StatusUnauthorized, "Login required")
		return
	}

	var req generateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Failure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Svc.GenerateImage(c.Request.Context(), ent, req.Prompt, req.Publish)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OKWithCredits(c, res.Content, res.Remaining)
}

func (h *Handler) removeBackground(c *gin.Context) {
	ent, ok := middleware.EntitlementFromContext(c)
	if !ok {
		respond.Failure(c, http.StatusUnauthorized, "Login required")
		return
	}

	image, ok := h.readUpload(c, "image")
	if !ok {
		return
	}

	res, err := h.Svc.RemoveBackground(c.Request.Context(), ent, image)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OKWithCredits(c, res.Content, res.Remaining)
}

func (h *Handler) removeObject(c *gin.Context) {
	ent, ok := middleware.EntitlementFromContext(c)
	if !ok {
		respond.Failure(c, http.StatusUnauthorized, "Login required")
		return
	}

	image, ok := h.readUpload(c, "image")
	if !ok {
		return
	}
	objectName := c.PostForm("object")

	res, err := h.Svc.RemoveObject(c.Request.Context(), ent, image, objectName)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OKWithCredits(c, res.Content, res.Remaining)
}

func (h *Handler) resumeReview(c *gin.Context) {
	ent, ok := middleware.EntitlementFromContext(c)
	if !ok {
		respond.Failure(c, http.StatusUnauthorized, "Login required")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		respond.Failure(c, http.StatusBadRequest, "resume file is required")
		return
	}
	if fileHeader.Size > maxResumeBytes {
		respond.Failure(c, http.StatusBadRequest, "Resume file size exceeds allowed size (5MB).")
		return
	}

	resume, ok := readFile(c, fileHeader)
	if !ok {
		return
	}

	res, err := h.Svc.ReviewResume(c.Request.Context(), ent, resume, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OKWithCredits(c, res.Content, res.Remaining)
}

// readUpload fetches a required multipart file field as bytes.
func (h *Handler) readUpload(c *gin.Context, field string) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	fileHeader, err := c.FormFile(field)
	if err != nil {
		respond.Failure(c, http.StatusBadRequest, field+" file is required")
		return nil, false
	}
	return readFile(c, fileHeader)
}

func readFile(c *gin.Context, fh *multipart.FileHeader) ([]byte, bool) {
	file, err := fh.Open()
	if err != nil {
		respond.Failure(c, http.StatusBadRequest, "unable to read uploaded file")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Failure(c, http.StatusBadRequest, "unable to read uploaded file")
		return nil, false
	}
	return data, true
}

// fail maps service errors to the uniform failure envelope.
func (h *Handler) fail(c *gin.Context, err error) {
	var noCredits *NoCreditsError
	var validation *ValidationError
	var provider *ProviderError
	switch {
	case errors.As(err, &noCredits):
		respond.Failure(c, http.StatusForbidden, noCredits.Error())
	case errors.As(err, &validation):
		respond.Failure(c, http.StatusBadRequest, validation.Error())
	case errors.As(err, &provider):
		respond.Failure(c, http.StatusBadGateway, provider.Error())
	default:
		respond.Failure(c, http.StatusInternalServerError, err.Error())
	}
}
