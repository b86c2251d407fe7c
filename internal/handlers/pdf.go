package handlers

import (
	"context"
	"encoding/base64"
	"strconv"

	"github.com/gofiber/fiber/v2"

	u "htmlpdf/internal/utils"
)

const (
	// ServiceName and ServiceVersion appear in the liveness payload.
	ServiceName    = "htmlpdf"
	ServiceVersion = "1.0.0"
)

// healthProbeHTML is the fixed snippet rendered by the detailed health
// check. The check runs the full render path, so polling it costs as much
// as a real request.
const healthProbeHTML = "<html><body>Test</body></html>"

// Renderer converts a complete HTML document into PDF bytes. The engine
// behind it is opaque to the handlers; any failure it reports is surfaced
// verbatim in the error response.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// RenderFunc adapts a function to the Renderer interface.
type RenderFunc func(ctx context.Context, html string) ([]byte, error)

func (f RenderFunc) Render(ctx context.Context, html string) ([]byte, error) {
	return f(ctx, html)
}

// PDFRequest is the request body for both generation endpoints.
// HTMLContent is a pointer so a missing field can be told apart from an
// empty document: the former is a 422, the latter renders.
type PDFRequest struct {
	HTMLContent *string `json:"htmlContent"`
	CustomCSS   string  `json:"customCss"`
}

// PDFService wraps the rendering engine for the HTTP handlers. One
// instance is shared by all routes.
type PDFService struct {
	Renderer Renderer
}

// NewPDFService creates a new PDFService instance.
func NewPDFService(r Renderer) *PDFService {
	return &PDFService{Renderer: r}
}

// HandleRoot reports static liveness without touching the renderer.
func (svc *PDFService) HandleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": ServiceName,
		"version": ServiceVersion,
	})
}

// HandleHealth exercises the full render path on a fixed snippet. The
// transport call itself always succeeds with 200; health state lives in
// the body.
func (svc *PDFService) HandleHealth(c *fiber.Ctx) error {
	if _, err := svc.Renderer.Render(c.Context(), healthProbeHTML); err != nil {
		u.Error("Health check failed", "error", err.Error())
		return c.JSON(fiber.Map{
			"status": "unhealthy",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status": "healthy",
		// Field name predates the Chromium engine; existing probes key on it.
		"weasyprint":     "functional",
		"pdf_generation": "working",
	})
}

// HandleGeneratePDF renders the request body and returns the PDF as a
// binary attachment.
func (svc *PDFService) HandleGeneratePDF(c *fiber.Ctx) error {
	req, err := decodePDFRequest(c)
	if err != nil {
		return err
	}
	pdfBuf, err := svc.render(c, req)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=document.pdf")
	c.Set(fiber.HeaderContentLength, strconv.Itoa(len(pdfBuf)))
	return c.Send(pdfBuf)
}

// HandleGeneratePDFBase64 renders the request body and returns the PDF as
// a base64 JSON field, for clients that cannot take binary bodies.
func (svc *PDFService) HandleGeneratePDFBase64(c *fiber.Ctx) error {
	req, err := decodePDFRequest(c)
	if err != nil {
		return err
	}
	pdfBuf, err := svc.render(c, req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"pdf":      base64.StdEncoding.EncodeToString(pdfBuf),
		"size":     len(pdfBuf),
		"encoding": "base64",
	})
}

func decodePDFRequest(c *fiber.Ctx) (*PDFRequest, error) {
	var req PDFRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
	}
	if req.HTMLContent == nil {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "htmlContent is required")
	}
	return &req, nil
}

// render applies the CSS transform and delegates to the engine. Payload
// contents are never logged, only sizes.
func (svc *PDFService) render(c *fiber.Ctx, req *PDFRequest) ([]byte, error) {
	htmlContent := InjectCSS(*req.HTMLContent, req.CustomCSS)

	requestID := c.Get("X-Request-ID")
	if requestID == "" {
		requestID = c.GetRespHeader("X-Request-ID")
	}
	u.Info("Starting PDF generation", "html_bytes", len(htmlContent), "request_id", requestID)

	pdfBuf, err := svc.Renderer.Render(c.Context(), htmlContent)
	if err != nil {
		u.Error("PDF generation failed", "error", err.Error(), "request_id", requestID)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "PDF generation failed: "+err.Error())
	}

	u.Info("PDF generated", "pdf_bytes", len(pdfBuf), "request_id", requestID)
	return pdfBuf, nil
}
