package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"recordgate/internal/ledger"
	"recordgate/internal/metrics"
	"recordgate/internal/storage"
)

// sniffLen is how many leading bytes are inspected to detect the content type.
const sniffLen = 3072

// FetchResult is an authorized record ready to be streamed. Body is read
// once and must be closed by the caller.
type FetchResult struct {
	Hash        string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}

// AccessGateway serves record bytes only to principals the ledger authorizes.
type AccessGateway interface {
	// Fetch validates the request, checks access and opens the content.
	// Errors match ErrInvalidInput, ErrUnauthorized, ErrContentNotFound or
	// ErrTransient; anything else is internal.
	Fetch(ctx context.Context, hash, owner, requester string) (*FetchResult, error)
}

type accessGateway struct {
	ledger  ledger.Reader
	store   storage.ContentStore
	metrics *metrics.Access
	tracer  trace.Tracer
}

// NewAccessGateway constructs an AccessGateway. m may be nil.
func NewAccessGateway(l ledger.Reader, store storage.ContentStore, m *metrics.Access) AccessGateway {
	return &accessGateway{
		ledger:  l,
		store:   store,
		metrics: m,
		tracer:  otel.Tracer("recordgate/internal/service"),
	}
}

func (g *accessGateway) Fetch(ctx context.Context, hash, owner, requester string) (*FetchResult, error) {
	ctx, span := g.tracer.Start(ctx, "AccessGateway.Fetch")
	defer span.End()

	res, outcome, err := g.fetch(ctx, hash, owner, requester)
	g.metrics.ObserveDecision(outcome)
	span.SetAttributes(attribute.String("access.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		if outcome == metrics.OutcomeError {
			span.SetStatus(codes.Error, "fetch failed")
		}
		return nil, err
	}
	span.SetAttributes(
		attribute.String("record.content_type", res.ContentType),
		attribute.Int64("record.size", res.Size),
	)
	res.Body = g.metrics.CountBytes(res.Body)
	return res, nil
}

func (g *accessGateway) fetch(ctx context.Context, hash, owner, requester string) (*FetchResult, string, error) {
	h, err := parseHash(hash)
	if err != nil {
		return nil, metrics.OutcomeInvalid, err
	}
	o, err := parseAddress("owner", owner)
	if err != nil {
		return nil, metrics.OutcomeInvalid, err
	}
	r, err := parseAddress("requester", requester)
	if err != nil {
		return nil, metrics.OutcomeInvalid, err
	}

	// Owner access is structural and never consults the ledger.
	outcome := metrics.OutcomeOwner
	if o != r {
		ok, err := g.ledger.CheckAccess(ctx, o, r, h)
		if err != nil {
			return nil, metrics.OutcomeError, fmt.Errorf("check access: %w", classify(err))
		}
		if !ok {
			return nil, metrics.OutcomeDenied, ErrUnauthorized
		}
		outcome = metrics.OutcomeGranted
	}

	body, info, err := g.store.Get(ctx, h)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, metrics.OutcomeNotFound, ErrContentNotFound
		}
		return nil, metrics.OutcomeError, fmt.Errorf("read content: %w", classify(err))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		body.Close()
		return nil, metrics.OutcomeError, fmt.Errorf("read content: %w", classify(err))
	}
	head = head[:n]

	return &FetchResult{
		Hash:        h,
		ContentType: mimetype.Detect(head).String(),
		Size:        info.Size,
		Body: readCloser{
			Reader: io.MultiReader(bytes.NewReader(head), body),
			Closer: body,
		},
	}, outcome, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}
