package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recordgate/internal/ledger"
	"recordgate/internal/ledger/chain"
	"recordgate/internal/model"
	"recordgate/internal/service"
	serviceMocks "recordgate/internal/service/mocks"
	"recordgate/internal/storage"
)

const pngScan = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"

// newFlowApp serves the real services over an in-process ledger and an
// in-memory content store.
func newFlowApp(t *testing.T, cfg fiber.Config) *fiber.App {
	t.Helper()
	c, err := chain.New(chain.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	store := storage.NewMemory()

	cfg.ErrorHandler = ErrorHandler()
	app := fiber.New(cfg)
	RegisterRoutes(app, nil, Deps{
		Gateway:      service.NewAccessGateway(c, store, nil),
		Records:      service.NewRecordService(c, store, 5*time.Second),
		Users:        new(serviceMocks.MockUserService),
		FetchTimeout: 5 * time.Second,
	}, zap.NewNop())
	return app
}

func send(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func uploadScan(t *testing.T, app *fiber.App) string {
	t.Helper()
	body, ct := multipartFile(t, "file", "scan.png", pngScan)
	req := httptest.NewRequest(http.MethodPost, "/records/upload?owner="+owner, body)
	req.Header.Set("Content-Type", ct)
	resp := send(t, app, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var res service.UploadResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res.Hash
}

func fetchReq(hash, requester string) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/records/"+hash+"?owner="+owner+"&requester="+requester, nil)
}

func TestFlow_GrantFetchRevoke(t *testing.T) {
	configs := []struct {
		name string
		cfg  fiber.Config
	}{
		{"default config", fiber.Config{}},
		{"immutable", fiber.Config{Immutable: true}},
	}

	for _, tc := range configs {
		t.Run(tc.name, func(t *testing.T) {
			app := newFlowApp(t, tc.cfg)
			h1 := uploadScan(t, app)

			steps := []struct {
				name   string
				req    func() *http.Request
				status int
				code   string
			}{
				{
					name: "grant provider",
					req: func() *http.Request {
						req := httptest.NewRequest(http.MethodPost, "/records/"+h1+"/grants",
							strings.NewReader(fmt.Sprintf(`{"owner":%q,"grantee":%q}`, owner, grantee)))
						req.Header.Set("Content-Type", "application/json")
						return req
					},
					status: http.StatusOK,
				},
				{name: "provider fetch", req: func() *http.Request { return fetchReq(h1, grantee) }, status: http.StatusOK},
				{
					name: "revoke provider",
					req: func() *http.Request {
						return httptest.NewRequest(http.MethodDelete, "/records/"+h1+"/grants/"+grantee+"?owner="+owner, nil)
					},
					status: http.StatusOK,
				},
				{name: "provider fetch after revoke", req: func() *http.Request { return fetchReq(h1, grantee) }, status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
				{name: "owner fetch after revoke", req: func() *http.Request { return fetchReq(h1, owner) }, status: http.StatusOK},
			}

			for _, s := range steps {
				req := s.req()
				resp := send(t, app, req)
				require.Equal(t, s.status, resp.StatusCode, s.name)
				if s.code != "" {
					assert.Equal(t, s.code, decodeError(t, resp.Body).Error.Code, s.name)
					continue
				}
				if req.Method == http.MethodGet {
					assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType), s.name)
					data, err := io.ReadAll(resp.Body)
					require.NoError(t, err)
					assert.Equal(t, pngScan, string(data), s.name)
				}
			}
		})
	}
}

func TestFlow_GrantSurvivesLaterRequests(t *testing.T) {
	app := newFlowApp(t, fiber.Config{})
	h1 := uploadScan(t, app)

	req := httptest.NewRequest(http.MethodPost, "/records/"+h1+"/grants",
		strings.NewReader(fmt.Sprintf(`{"owner":%q,"grantee":%q}`, owner, grantee)))
	req.Header.Set("Content-Type", "application/json")
	resp := send(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var receipt ledger.Receipt
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&receipt))

	// Unrelated traffic of the same shape reuses the server's request buffers.
	other := "0x" + strings.Repeat("7", 40)
	for i := 0; i < 50; i++ {
		send(t, app, httptest.NewRequest(http.MethodGet, "/owners/"+other+"/records", nil))
		send(t, app, httptest.NewRequest(http.MethodGet, "/records/bafkreiaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa?owner="+other+"&requester="+other, nil))
	}

	resp = send(t, app, fetchReq(h1, grantee))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = send(t, app, httptest.NewRequest(http.MethodGet, "/grantees/"+grantee+"/shared", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var shared listResponse[model.SharedRecord]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&shared))
	require.Equal(t, 1, shared.Total)
	assert.Equal(t, h1, shared.Items[0].Hash)
	assert.Equal(t, owner, shared.Items[0].Owner)

	resp = send(t, app, httptest.NewRequest(http.MethodGet, "/transactions/"+string(receipt.Handle), nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status ledger.Receipt
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, h1, status.Tx.Hash)
	assert.Equal(t, grantee, status.Tx.Grantee)
}
