package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fulbito99/Deposito-Unsa/internal/application/analytics"
	"github.com/Fulbito99/Deposito-Unsa/internal/application/dto"
	"github.com/Fulbito99/Deposito-Unsa/internal/application/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/application/usecase"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	"github.com/Fulbito99/Deposito-Unsa/internal/infrastructure/memory"
	"github.com/Fulbito99/Deposito-Unsa/internal/infrastructure/metrics"
	httpapi "github.com/Fulbito99/Deposito-Unsa/internal/interfaces/http"
)

type testServer struct {
	app   *fiber.App
	store *memory.Store
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	m := metrics.New()
	cfg := inventory.Settings{RetractStatsOnReversal: true, Observer: m}

	app := httpapi.NewApp("test", nil)
	httpapi.Router(app, httpapi.RouterDeps{
		TransferUC:  inventory.NewTransferUseCase(store, repos.Transfers, cfg),
		ReversalUC:  inventory.NewReversalUseCase(store, repos.Transfers, cfg),
		HistoryUC:   inventory.NewHistoryUseCase(repos.Transfers),
		ProductUC:   usecase.NewProductUseCase(store, repos.Products),
		LocaleUC:    usecase.NewLocaleUseCase(store, repos.Locales, nil),
		DashboardUC: analytics.NewDashboardUseCase(repos, nil),
		RebuildUC:   analytics.NewRebuildStatsUseCase(store, nil, nil),
		Metrics:     m.Handler(),
		Location:    time.UTC,
		StorageMode: "local",
	})

	ctx := context.Background()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "YER-1", Name: "Yerba", MasterStock: 10}))
	require.NoError(t, repos.Locales.Create(ctx, &entity.Locale{ID: "l1", Name: "El Punto"}))
	return &testServer{app: app, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func transferBody(src, dst string, qty int) dto.CreateTransferRequest {
	return dto.CreateTransferRequest{ProductID: "p1", SourceID: src, DestinationID: dst, Quantity: qty}
}

func TestTransfers_CrearListarYDeshacer(t *testing.T) {
	s := newServer(t)

	status, body := s.do(t, "POST", "/api/transfers", transferBody("deposit", "l1", 4))
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var created dto.TransferResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Depósito Central", created.SourceLocaleName)
	assert.Equal(t, "El Punto", created.DestinationLocaleName)
	assert.Equal(t, 4, created.Quantity)

	status, body = s.do(t, "GET", "/api/transfers?q=yer", nil)
	require.Equal(t, fiber.StatusOK, status)
	var page dto.TransferListResponse
	require.NoError(t, json.Unmarshal(body, &page))
	require.Len(t, page.Items, 1)
	assert.False(t, page.HasMore)

	status, _ = s.do(t, "GET", "/api/transfers/"+created.ID, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = s.do(t, "DELETE", "/api/transfers/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, body = s.do(t, "GET", "/api/transfers/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, string(body), "NOT_FOUND")

	p, err := s.store.Repositories().Products.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.MasterStock)
}

func TestTransfers_StockInsuficienteDevuelveDetalle(t *testing.T) {
	s := newServer(t)

	status, body := s.do(t, "POST", "/api/transfers", transferBody("deposit", "l1", 11))
	require.Equal(t, fiber.StatusConflict, status)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)
	assert.Equal(t, "Depósito Central", errResp.Details["holder"])
	assert.EqualValues(t, 10, errResp.Details["available"])
}

func TestTransfers_Validacion(t *testing.T) {
	s := newServer(t)

	cases := []dto.CreateTransferRequest{
		transferBody("deposit", "l1", 0),
		transferBody("l1", "l1", 1),
		{SourceID: "deposit", DestinationID: "l1", Quantity: 1},
		transferBody("deposit", "l1", entity.MaxStock+1),
	}
	for _, in := range cases {
		status, body := s.do(t, "POST", "/api/transfers", in)
		assert.Equal(t, fiber.StatusBadRequest, status, string(body))
		assert.Contains(t, string(body), "VALIDATION")
	}

	status, _ := s.do(t, "POST", "/api/transfers", transferBody("deposit", "nope", 1))
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = s.do(t, "GET", "/api/transfers?date=04-05-2026", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestTransfers_EdicionNoSoportada(t *testing.T) {
	s := newServer(t)
	status, body := s.do(t, "PUT", "/api/transfers/abc", transferBody("deposit", "l1", 1))
	assert.Equal(t, fiber.StatusMethodNotAllowed, status)
	assert.Contains(t, string(body), "NOT_SUPPORTED")
}

func TestTransfers_RepetirYBorrarHistorial(t *testing.T) {
	s := newServer(t)

	status, body := s.do(t, "POST", "/api/transfers", transferBody("deposit", "l1", 2))
	require.Equal(t, fiber.StatusCreated, status)
	var created dto.TransferResponse
	require.NoError(t, json.Unmarshal(body, &created))

	status, _ = s.do(t, "POST", "/api/transfers/"+created.ID+"/repeat", nil)
	require.Equal(t, fiber.StatusCreated, status)

	status, body = s.do(t, "DELETE", "/api/transfers?destination_id=l1", nil)
	require.Equal(t, fiber.StatusOK, status, string(body))
	var res dto.ClearHistoryResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, 2, res.Matched)
	assert.Equal(t, 2, res.Removed)

	p, err := s.store.Repositories().Products.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.MasterStock)
}

func TestStats_YMetrics(t *testing.T) {
	s := newServer(t)
	status, _ := s.do(t, "POST", "/api/transfers", transferBody("deposit", "l1", 3))
	require.Equal(t, fiber.StatusCreated, status)

	status, body := s.do(t, "GET", "/api/stats", nil)
	require.Equal(t, fiber.StatusOK, status)
	var stats dto.DashboardStatsDTO
	require.NoError(t, json.Unmarshal(body, &stats))
	require.Len(t, stats.DistributionData, 1)
	assert.Equal(t, dto.DistributionItemDTO{Name: "Yerba", Value: 3}, stats.DistributionData[0])
	assert.Equal(t, 7, stats.Totals.DepositUnits)
	assert.Equal(t, 3, stats.Totals.LocaleUnits)

	status, _ = s.do(t, "POST", "/api/stats/rebuild", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, body = s.do(t, "GET", "/metrics", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `deposito_transfers_total{result="ok"} 1`)
}

func TestCatalogo_ProductosYLocales(t *testing.T) {
	s := newServer(t)

	status, body := s.do(t, "POST", "/api/products", dto.CreateProductRequest{
		SKU: "az-2", Name: "Azúcar", AdditionalSKUs: []string{"7790001"}, MasterStock: 5,
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))

	status, body = s.do(t, "GET", "/api/products/lookup?code=7790001", nil)
	require.Equal(t, fiber.StatusOK, status)
	var p dto.ProductResponse
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, "AZ-2", p.SKU)

	status, _ = s.do(t, "POST", "/api/products", dto.CreateProductRequest{SKU: "AZ-2", Name: "Otro"})
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = s.do(t, "POST", "/api/products", dto.CreateProductRequest{Name: "Sin SKU"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = s.do(t, "POST", "/api/locales", dto.CreateLocaleRequest{Name: "Soho"})
	require.Equal(t, fiber.StatusCreated, status)
	var l dto.LocaleResponse
	require.NoError(t, json.Unmarshal(body, &l))
	assert.True(t, l.Exempt)

	name := "La Guardia"
	status, _ = s.do(t, "PATCH", "/api/locales/"+l.ID, dto.UpdateLocaleRequest{Name: &name})
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = s.do(t, "DELETE", "/api/locales/"+l.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = s.do(t, "GET", "/api/locales/"+l.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	status, body := s.do(t, "GET", "/health", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"storage":"local"`)
}
