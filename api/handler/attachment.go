package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/eisengo/backend/api/transport"
	"github.com/eisengo/backend/domain"
	"github.com/eisengo/backend/pkg/httpcontext"
	attachmentUC "github.com/eisengo/backend/usecase/attachment"
)

type AttachmentHandler struct {
	baseHandler
	uc *attachmentUC.UseCase
}

func NewAttachmentHandler(uc *attachmentUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Attach a file to a task
// @Tags attachments
// @Accept multipart/form-data
// @Router /api/v1/tasks/{id}/upload/{kind} [post]
func (h *AttachmentHandler) Upload(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	taskID, _ := ctx.UserValue("id").(string)
	kind, _ := ctx.UserValue("kind").(string)
	if taskID == "" || kind == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalidField), "missing task id or kind", nil))
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalidField), "missing file field", nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Upload(stdCtx, userID, taskID, domain.AttachmentKind(kind), fileHeader.Filename, data)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Download an attached file
// @Tags attachments
// @Router /api/v1/download/{id}/{filename} [get]
func (h *AttachmentHandler) Download(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	taskID, _ := ctx.UserValue("id").(string)
	filename, _ := ctx.UserValue("filename").(string)
	if taskID == "" || filename == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalidField), "missing task id or filename", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	data, name, err := h.uc.Download(stdCtx, userID, taskID, filename)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.Response.Header.SetContentType("application/octet-stream")
	ctx.Response.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(data)
}
