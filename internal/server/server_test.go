package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/formanet/formanet/internal/config"
	dispatchdomain "github.com/formanet/formanet/internal/dispatch/domain"
	onboardingdomain "github.com/formanet/formanet/internal/onboarding/domain"
	organizationdomain "github.com/formanet/formanet/internal/organization/domain"
	royaltydomain "github.com/formanet/formanet/internal/royalty/domain"
	territorydomain "github.com/formanet/formanet/internal/territory/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeTerritoryService struct {
	createErr error
	conflicts []territorydomain.Conflict
}

func (f *fakeTerritoryService) CheckConflicts(ctx context.Context, zipCodes []string, excludeOrgID snowflake.ID) ([]territorydomain.Conflict, error) {
	return f.conflicts, nil
}

func (f *fakeTerritoryService) Create(ctx context.Context, req territorydomain.CreateTerritoryRequest) (*territorydomain.Territory, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &territorydomain.Territory{ID: snowflake.ID(1), OrgID: req.OrgID, Name: req.Name}, nil
}

func (f *fakeTerritoryService) ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]territorydomain.Territory, error) {
	return nil, nil
}

func (f *fakeTerritoryService) Deactivate(ctx context.Context, territoryID snowflake.ID) error {
	return nil
}

type fakeDispatchService struct {
	result *dispatchdomain.Result
	err    error
}

func (f *fakeDispatchService) Dispatch(ctx context.Context, dossierID snowflake.ID, postalCode string) (*dispatchdomain.Result, error) {
	return f.result, f.err
}

func (f *fakeDispatchService) DispatchAllPending(ctx context.Context, headOfficeID snowflake.ID) (*dispatchdomain.BatchResult, error) {
	return &dispatchdomain.BatchResult{}, nil
}

type fakeOnboardingService struct {
	err error
}

func (f *fakeOnboardingService) Onboard(ctx context.Context, req onboardingdomain.OnboardRequest) (*organizationdomain.Organization, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &organizationdomain.Organization{ID: snowflake.ID(42), Name: "Boulangerie Martin"}, nil
}

type fakeRoyaltyService struct {
	err error
}

func (f *fakeRoyaltyService) ComputeRoyalties(ctx context.Context, orgID snowflake.ID, month string) (*royaltydomain.Breakdown, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &royaltydomain.Breakdown{OrganizationID: orgID, Month: month}, nil
}

func (f *fakeRoyaltyService) ComputeNetworkSummary(ctx context.Context, headOfficeID snowflake.ID, month string) (*royaltydomain.NetworkSummary, error) {
	return &royaltydomain.NetworkSummary{HeadOfficeID: headOfficeID, Month: month}, nil
}

type fakeOrganizationService struct{}

func (f *fakeOrganizationService) Create(ctx context.Context, req organizationdomain.CreateOrganizationRequest) (*organizationdomain.Organization, error) {
	return &organizationdomain.Organization{ID: snowflake.ID(7), Name: req.Name}, nil
}

func (f *fakeOrganizationService) GetByID(ctx context.Context, id snowflake.ID) (*organizationdomain.Organization, error) {
	return nil, organizationdomain.ErrNotFound
}

func (f *fakeOrganizationService) ListActiveMembers(ctx context.Context, headOfficeID snowflake.ID) ([]organizationdomain.Organization, error) {
	return nil, nil
}

type testServer struct {
	engine     *gin.Engine
	territory  *fakeTerritoryService
	dispatch   *fakeDispatchService
	onboarding *fakeOnboardingService
	royalty    *fakeRoyaltyService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zaptest.NewLogger(t)

	ts := &testServer{
		engine:     NewEngine(log),
		territory:  &fakeTerritoryService{},
		dispatch:   &fakeDispatchService{},
		onboarding: &fakeOnboardingService{},
		royalty:    &fakeRoyaltyService{},
	}
	NewServer(ServerParams{
		Gin:             ts.engine,
		Cfg:             config.Config{MaintenanceToken: "maintenance-token"},
		Log:             log,
		GenID:           node,
		OrganizationSvc: &fakeOrganizationService{},
		TerritorySvc:    ts.territory,
		DispatchSvc:     ts.dispatch,
		OnboardingSvc:   ts.onboarding,
		RoyaltySvc:      ts.royalty,
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range header {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func TestCreateTerritoryConflictReturns409WithDetail(t *testing.T) {
	ts := newTestServer(t)
	ts.territory.createErr = &territorydomain.ConflictError{Conflicts: []territorydomain.Conflict{{
		OrganizationID:      snowflake.ID(9),
		OrganizationName:    "Paris Nord",
		OverlappingZipCodes: []string{"75001"},
	}}}

	rec := ts.do(t, http.MethodPost, "/api/territories", map[string]any{
		"organization_id": "10",
		"name":            "Paris Est Zone",
		"zip_codes":       []string{"75001"},
		"is_exclusive":    true,
	}, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Error struct {
			Type      string `json:"type"`
			Message   string `json:"message"`
			Conflicts []struct {
				OrganizationName    string   `json:"organization_name"`
				OverlappingZipCodes []string `json:"overlapping_zip_codes"`
			} `json:"conflicts"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "conflict", resp.Error.Type)
	require.Len(t, resp.Error.Conflicts, 1)
	assert.Equal(t, "Paris Nord", resp.Error.Conflicts[0].OrganizationName)
	assert.Equal(t, []string{"75001"}, resp.Error.Conflicts[0].OverlappingZipCodes)
}

func TestOnboardNotSignedReturns400WithStateMessage(t *testing.T) {
	ts := newTestServer(t)
	ts.onboarding.err = &onboardingdomain.NotSignedError{Current: onboardingdomain.CandidateStatusQualified}

	rec := ts.do(t, http.MethodPost, "/api/candidates/123/onboard", map[string]any{
		"admin_password": "s3cret",
		"city":           "Paris",
		"zip_code":       "75011",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "candidate must be SIGNED, currently QUALIFIED")
}

func TestOnboardAlreadyOnboardedReturns409(t *testing.T) {
	ts := newTestServer(t)
	ts.onboarding.err = onboardingdomain.ErrAlreadyOnboarded

	rec := ts.do(t, http.MethodPost, "/api/candidates/123/onboard", map[string]any{
		"admin_password": "s3cret",
		"city":           "Paris",
		"zip_code":       "75011",
	}, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDispatchNotFoundReturns404(t *testing.T) {
	ts := newTestServer(t)
	ts.dispatch.err = dispatchdomain.ErrDossierNotFound

	rec := ts.do(t, http.MethodPost, "/api/dispatch", map[string]any{
		"dossier_id":  "123",
		"postal_code": "75001",
	}, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDispatchFromNonHeadOfficeReturns400(t *testing.T) {
	ts := newTestServer(t)
	ts.dispatch.err = dispatchdomain.ErrNotHeadOffice

	rec := ts.do(t, http.MethodPost, "/api/dispatch", map[string]any{
		"dossier_id":  "123",
		"postal_code": "75001",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRoyaltiesBadMonthReturns400(t *testing.T) {
	ts := newTestServer(t)
	ts.royalty.err = royaltydomain.ErrInvalidMonth

	rec := ts.do(t, http.MethodGet, "/api/royalties?organization_id=123&month=bogus", nil, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestMaintenanceEndpointRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/maintenance/decay", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/maintenance/decay", nil, map[string]string{
		"Authorization": "Bearer wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestRequestIDAssignedAndEchoed(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", nil, nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = ts.do(t, http.MethodGet, "/health", nil, map[string]string{
		"X-Request-Id": "req-abc-123",
	})
	assert.Equal(t, "req-abc-123", rec.Header().Get("X-Request-Id"))
}
