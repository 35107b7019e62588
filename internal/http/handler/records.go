package handler

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"recordgate/internal/ledger"
	"recordgate/internal/model"
	"recordgate/internal/service"
)

// grantRequest is the body of POST /records/{hash}/grants.
type grantRequest struct {
	Owner   string `json:"owner"`
	Grantee string `json:"grantee"`
}

// listResponse wraps list endpoints the same way paginated lists are wrapped.
type listResponse[T any] struct {
	Items []T `json:"data"`
	Total int `json:"total"`
}

// firstQuery returns the first non-empty query value among keys. The
// legacy client sends patientAddress and providerAddress.
func firstQuery(c *fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		if v := c.Query(k); v != "" {
			return v
		}
	}
	return ""
}

// cancelOnClose releases the fetch context once the response body is done.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b cancelOnClose) Close() error {
	defer b.cancel()
	return b.ReadCloser.Close()
}

// FetchRecord streams a record to an authorized requester.
//
// @Summary Fetch record content
// @Description Checks the access ledger, then streams the bytes with a sniffed Content-Type.
// @Tags records
// @Produce octet-stream
// @Param hash path string true "Content hash (CID)"
// @Param owner query string true "Owner address"
// @Param requester query string true "Requester address"
// @Success 200 {file} binary
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /records/{hash} [get]
func FetchRecord(gw service.AccessGateway, users service.UserService, log *zap.Logger, timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := firstQuery(c, "owner", "patientAddress")
		requester := firstQuery(c, "requester", "providerAddress")

		ctx, cancel := c.UserContext(), context.CancelFunc(func() {})
		if timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, timeout)
		}

		res, err := gw.Fetch(ctx, c.Params("hash"), owner, requester)
		if err != nil {
			cancel()
			return writeServiceError(c, log, err)
		}

		if users != nil && log.Core().Enabled(zapcore.DebugLevel) {
			log.Debug("record_fetch",
				zap.String("request_id", requestIDFromCtx(c)),
				zap.String("hash", res.Hash),
				zap.String("requester_role", string(users.Classify(ctx, requester))),
			)
		}

		c.Set(fiber.HeaderContentType, res.ContentType)
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		c.Set(fiber.HeaderCacheControl, "private, no-store")
		c.Status(fiber.StatusOK)
		return c.SendStream(cancelOnClose{ReadCloser: res.Body, cancel: cancel}, int(res.Size))
	}
}

// UploadRecord stores an uploaded file and registers it to the owner.
//
// @Summary Upload a record
// @Tags records
// @Accept mpfd
// @Produce json
// @Param owner query string true "Owner address"
// @Param file formData file true "Record file"
// @Success 201 {object} service.UploadResult
// @Success 202 {object} service.UploadResult
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /records/upload [post]
func UploadRecord(svc service.RecordService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		owner := firstQuery(c, "owner", "patientAddress")
		if owner == "" {
			owner = c.FormValue("owner", c.FormValue("patientAddress"))
		}

		res, err := svc.Upload(c.UserContext(), owner, f)
		var pending *service.PendingError
		switch {
		case errors.As(err, &pending):
			return c.Status(fiber.StatusAccepted).JSON(res)
		case err != nil:
			return writeServiceError(c, log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// writeReceipt answers a ledger write: 200 once final, 202 while pending.
func writeReceipt(c *fiber.Ctx, log *zap.Logger, r ledger.Receipt, err error) error {
	var pending *service.PendingError
	switch {
	case errors.As(err, &pending):
		return c.Status(fiber.StatusAccepted).JSON(pending.Receipt)
	case err != nil:
		return writeServiceError(c, log, err)
	}
	return c.Status(fiber.StatusOK).JSON(r)
}

// GrantAccess authorizes a grantee to fetch one of the owner's records.
//
// @Summary Grant access
// @Tags grants
// @Accept json
// @Produce json
// @Param hash path string true "Content hash (CID)"
// @Param body body grantRequest true "Owner and grantee"
// @Success 200 {object} ledger.Receipt
// @Success 202 {object} ledger.Receipt
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /records/{hash}/grants [post]
func GrantAccess(svc service.RecordService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req grantRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		r, err := svc.Grant(c.UserContext(), req.Owner, req.Grantee, c.Params("hash"))
		return writeReceipt(c, log, r, err)
	}
}

// RevokeAccess withdraws a grantee's access to one of the owner's records.
//
// @Summary Revoke access
// @Tags grants
// @Produce json
// @Param hash path string true "Content hash (CID)"
// @Param grantee path string true "Grantee address"
// @Param owner query string true "Owner address"
// @Success 200 {object} ledger.Receipt
// @Success 202 {object} ledger.Receipt
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /records/{hash}/grants/{grantee} [delete]
func RevokeAccess(svc service.RecordService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := firstQuery(c, "owner", "patientAddress")
		r, err := svc.Revoke(c.UserContext(), owner, c.Params("grantee"), c.Params("hash"))
		return writeReceipt(c, log, r, err)
	}
}

// ListOwnerRecords lists the records registered to an owner.
//
// @Summary List an owner's records
// @Tags records
// @Produce json
// @Param address path string true "Owner address"
// @Param order query string false "asc (registration order) or desc"
// @Success 200 {object} listResponse[model.Record]
// @Failure 400 {object} errorPayload
// @Router /owners/{address}/records [get]
func ListOwnerRecords(svc service.RecordService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var newestFirst bool
		switch strings.ToLower(c.Query("order", "asc")) {
		case "asc":
		case "desc":
			newestFirst = true
		default:
			return writeError(c, fiber.StatusBadRequest, "INVALID_ORDER", "order must be asc or desc")
		}

		records, err := svc.ListRecords(c.UserContext(), c.Params("address"), newestFirst)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(listResponse[model.Record]{Items: records, Total: len(records)})
	}
}

// ListSharedRecords lists the records currently shared with a grantee.
//
// @Summary List records shared with a grantee
// @Tags grants
// @Produce json
// @Param address path string true "Grantee address"
// @Success 200 {object} listResponse[model.SharedRecord]
// @Failure 400 {object} errorPayload
// @Router /grantees/{address}/shared [get]
func ListSharedRecords(svc service.RecordService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		shared, err := svc.ListShared(c.UserContext(), c.Params("address"))
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(listResponse[model.SharedRecord]{Items: shared, Total: len(shared)})
	}
}

// TransactionStatus reports the receipt of a submitted ledger write.
//
// @Summary Transaction status
// @Tags transactions
// @Produce json
// @Param handle path string true "Transaction handle"
// @Success 200 {object} ledger.Receipt
// @Failure 404 {object} errorPayload
// @Router /transactions/{handle} [get]
func TransactionStatus(svc service.RecordService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := svc.TxStatus(c.UserContext(), c.Params("handle"))
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(r)
	}
}
