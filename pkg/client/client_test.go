package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/centra-hq/centra-console/pkg/apperrors"
	"github.com/centra-hq/centra-console/pkg/config"
	"github.com/centra-hq/centra-console/pkg/models"
)

func newTestClient(ingest, decision, learner string) *Client {
	return NewClient(config.ServicesConfig{
		IngestURL:   ingest,
		DecisionURL: decision,
		LearnerURL:  learner,
		ExecutorURL: "http://127.0.0.1:1",
		ExplainURL:  "http://127.0.0.1:1",
	}, zap.NewNop())
}

func TestListWorkItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/work-items", r.URL.Path)
		assert.Equal(t, "payments-api", r.URL.Query().Get("service"))
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		assert.Empty(t, r.URL.Query().Get("severity"), "zero-value filters must be omitted")

		json.NewEncoder(w).Encode(models.WorkItemsResponse{
			WorkItems: []models.WorkItem{{ID: "wi-1", Service: "payments-api"}},
			Total:     1,
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL, server.URL, server.URL)
	resp, err := c.ListWorkItems(context.Background(), ListWorkItemsParams{Service: "payments-api", Limit: 25})
	require.NoError(t, err)
	require.Len(t, resp.WorkItems, 1)
	assert.Equal(t, "wi-1", resp.WorkItems[0].ID)
}

func TestCreateWorkItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.CreateWorkItemRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "incident", req.Type)

		json.NewEncoder(w).Encode(models.WorkItem{ID: "wi-new", Type: req.Type})
	}))
	defer server.Close()

	c := newTestClient(server.URL, server.URL, server.URL)
	item, err := c.CreateWorkItem(context.Background(), &models.CreateWorkItemRequest{
		Type:        "incident",
		Service:     "payments-api",
		Severity:    "sev2",
		Description: "checkout failing",
	})
	require.NoError(t, err)
	assert.Equal(t, "wi-new", item.ID)
}

func TestRecordOutcome(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/work-items/wi-1/outcome", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		json.NewEncoder(w).Encode(models.OutcomeResponse{Processed: true, Message: "recorded"})
	}))
	defer server.Close()

	c := newTestClient(server.URL, server.URL, server.URL)
	outcome := models.NewOutcomeRequest(models.OutcomeResolved, "h-1")
	resp, err := c.RecordOutcome(context.Background(), "wi-1", &outcome)
	require.NoError(t, err)
	assert.True(t, resp.Processed)
}

func TestGetDecision_AbsenceIsNotAnError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"detail":"no decision yet"}`, http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(server.URL, server.URL, server.URL)
	_, err := c.GetDecision(context.Background(), "wi-1")
	require.ErrorIs(t, err, apperrors.ErrNoDecision)
	assert.Equal(t, int32(1), calls.Load(), "absence must not be retried")
}

func TestGetDecision_TransientFailureRetriedOnce(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "temporarily overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(models.Decision{ID: "d-1", WorkItemID: "wi-1"})
	}))
	defer server.Close()

	c := newTestClient(server.URL, server.URL, server.URL)
	decision, err := c.GetDecision(context.Background(), "wi-1")
	require.NoError(t, err)
	assert.Equal(t, "d-1", decision.ID)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetAuditTrail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audit/wi-1", r.URL.Path)
		json.NewEncoder(w).Encode(models.AuditTrail{WorkItemID: "wi-1"})
	}))
	defer server.Close()

	c := newTestClient(server.URL, server.URL, server.URL)
	trail, err := c.GetAuditTrail(context.Background(), "wi-1")
	require.NoError(t, err)
	assert.Equal(t, "wi-1", trail.WorkItemID)
}

func TestGetProfiles_EscapesService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/profiles", r.URL.Path)
		assert.Equal(t, "team a/payments", r.URL.Query().Get("service"))
		json.NewEncoder(w).Encode(models.ProfilesResponse{Service: "team a/payments"})
	}))
	defer server.Close()

	c := newTestClient(server.URL, server.URL, server.URL)
	resp, err := c.GetProfiles(context.Background(), "team a/payments")
	require.NoError(t, err)
	assert.Equal(t, "team a/payments", resp.Service)
}

func TestGetHumanStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stats", r.URL.Path)
		assert.Equal(t, "h-1", r.URL.Query().Get("human_id"))
		json.NewEncoder(w).Encode(models.HumanStats{HumanID: "h-1"})
	}))
	defer server.Close()

	c := newTestClient(server.URL, server.URL, server.URL)
	stats, err := c.GetHumanStats(context.Background(), "h-1")
	require.NoError(t, err)
	assert.Equal(t, "h-1", stats.HumanID)
}

func TestNonOKStatusCarriesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad filter", http.StatusBadRequest)
	}))
	defer server.Close()

	c := newTestClient(server.URL, server.URL, server.URL)
	_, err := c.ListWorkItems(context.Background(), ListWorkItemsParams{})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "bad filter")
}

func TestCheckAll_PartialOutage(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}))
	defer healthy.Close()

	// Three of five services point at a closed port.
	c := NewClient(config.ServicesConfig{
		IngestURL:   healthy.URL,
		DecisionURL: healthy.URL,
		LearnerURL:  "http://127.0.0.1:1",
		ExecutorURL: "http://127.0.0.1:1",
		ExplainURL:  "http://127.0.0.1:1",
	}, zap.NewNop())

	checks := c.CheckAll(context.Background())
	require.Len(t, checks, 5)

	// Results keep the canonical service order.
	assert.Equal(t, "Ingest", checks[0].Service)
	assert.Equal(t, "Decision", checks[1].Service)
	assert.Equal(t, "Learner", checks[2].Service)
	assert.Equal(t, "Executor", checks[3].Service)
	assert.Equal(t, "Explain", checks[4].Service)

	healthyCount, unreachableCount := 0, 0
	for _, check := range checks {
		if check.Healthy {
			healthyCount++
			assert.Equal(t, "healthy", check.Status)
		} else {
			unreachableCount++
			assert.Equal(t, "unreachable", check.Status)
		}
	}
	assert.Equal(t, 2, healthyCount)
	assert.Equal(t, 3, unreachableCount)
}

func TestGetGraph(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/graph", r.URL.Path)
		assert.Equal(t, models.NodeTypeHuman, r.URL.Query().Get("node_type"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(models.GraphData{
			Nodes: []models.GraphNode{},
			Links: []models.GraphEdge{},
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL, server.URL, server.URL)
	data, err := c.GetGraph(context.Background(), server.URL, GraphParams{
		NodeType: models.NodeTypeHuman,
		Limit:    100,
	})
	require.NoError(t, err)
	assert.NotNil(t, data.Nodes)
}

func TestTransportFailureIsWrapped(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1", "http://127.0.0.1:1", "http://127.0.0.1:1")
	_, err := c.GetWorkItem(context.Background(), "wi-1")
	require.Error(t, err)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr), "transport failures are not status errors")
}
