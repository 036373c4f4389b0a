package handler

import (
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/pdfcourier/api/internal/model"
	"github.com/pdfcourier/api/internal/parse"
	"github.com/pdfcourier/api/internal/service"
	"github.com/pdfcourier/api/pkg/response"
)

const maxListSize = 1 * 1024 * 1024 // 1MB

type ConvertHandler struct {
	service   *service.ConvertService
	validator *validator.Validate
}

func NewConvertHandler(svc *service.ConvertService, v *validator.Validate) *ConvertHandler {
	return &ConvertHandler{
		service:   svc,
		validator: v,
	}
}

// Submit handles POST /api/convert
// @Summary      Submit conversion job
// @Description  Queue a batch of URLs for PDF conversion and delivery. The URL list is taken from the `urls` field or from an uploaded file (`file`, multipart). Unless `format` says otherwise, the list encoding is sniffed from the file name and content.
// @Tags         Convert
// @Accept       json,mpfd
// @Produce      json
// @Param        request body model.ConvertRequest true "Conversion request"
// @Success      202 {object} model.ConvertAcceptedResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      429 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/convert [post]
func (h *ConvertHandler) Submit(c *fiber.Ctx) error {
	var req model.ConvertRequest

	if file, ferr := c.FormFile("file"); ferr == nil {
		// The URL list arrives as an uploaded file
		if file.Size > maxListSize {
			return response.ValidationError(c, "URL list exceeds 1MB limit", map[string]interface{}{
				"maxSize":  maxListSize,
				"fileSize": file.Size,
			})
		}

		f, err := file.Open()
		if err != nil {
			return response.ValidationError(c, "Failed to open uploaded file", nil)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return response.ValidationError(c, "Failed to read uploaded file", nil)
		}

		req.URLs = string(data)
		req.Recipient = c.FormValue("recipient")
		req.Strategy = c.FormValue("strategy")
		req.Name = c.FormValue("name")
		req.Format = c.FormValue("format")
		if req.Format == "" {
			req.Format = string(parse.Detect(file.Filename, data))
		}
	} else {
		if err := c.BodyParser(&req); err != nil {
			return response.ValidationError(c, "Invalid request body", nil)
		}
		if req.Format == "" && req.URLs != "" {
			req.Format = string(parse.Detect("", []byte(req.URLs)))
		}
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.Submit(c.Context(), &req)
	if err != nil {
		// Submission errors are all request problems; once a job is
		// accepted its failures live on the job record instead
		return response.ValidationError(c, err.Error(), nil)
	}

	return response.Accepted(c, result)
}

// Status handles GET /api/convert/status/:jobId
// @Summary      Get conversion job status
// @Description  Get the full record of a conversion job: status, progress, per-URL log stream, counts and the delivery result once the job completes
// @Tags         Convert
// @Produce      json
// @Param        jobId path string true "Job ID"
// @Success      200 {object} model.Job
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/convert/status/{jobId} [get]
func (h *ConvertHandler) Status(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	job, err := h.service.Status(c.Context(), jobID)
	if err != nil {
		if err.Error() == "job not found" {
			return response.NotFound(c, "Job not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, job)
}

// formatValidationErrors formats validator errors for response
func formatValidationErrors(err error) interface{} {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errors := make(map[string]string)
		for _, e := range validationErrors {
			errors[e.Field()] = e.Tag()
		}
		return errors
	}
	return nil
}
