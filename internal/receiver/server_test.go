package receiver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/robgonnella/portwatch/internal/config"
	mock_store "github.com/robgonnella/portwatch/internal/mock/store"
	"github.com/robgonnella/portwatch/internal/receiver"
	"github.com/robgonnella/portwatch/internal/store"
	"github.com/robgonnella/portwatch/internal/test_util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scansResponse struct {
	Scans []*store.View `json:"scans"`
}

func post(t *testing.T, url, contentType, body string) (int, map[string]string) {
	t.Helper()

	resp, err := http.Post(url+"/receive", contentType, strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	result := map[string]string{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	return resp.StatusCode, result
}

func getScans(t *testing.T, url string) []*store.View {
	t.Helper()

	resp, err := http.Get(url + "/scans")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := scansResponse{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	return result.Scans
}

func TestServer(t *testing.T) {
	repo, err := store.NewSqliteDatabase(test_util.TempDBFile(t, "receiver.db"))
	require.NoError(t, err)
	defer repo.Close()

	conf := config.Config{ReceiverPort: 5000, QueryLimit: 100}

	srv := httptest.NewServer(receiver.NewServer(conf, store.NewService(repo)).Handler())
	defer srv.Close()

	t.Run("stores snapshot and acknowledges", func(st *testing.T) {
		status, body := post(
			st,
			srv.URL,
			"application/json",
			`{"host_identifier":"h1","timestamp":1700000000,"open_ports":{"tcp":[80],"udp":[]}}`,
		)

		assert.Equal(st, http.StatusOK, status)
		assert.Equal(st, "success", body["status"])

		scans := getScans(st, srv.URL)

		require.Len(st, scans, 1)
		assert.Equal(st, "h1", scans[0].Host)
		assert.Equal(st, "2023-11-14T22:13:20Z", scans[0].ScanTime)
		assert.Equal(st, "tcp", scans[0].Protocol)
		assert.Equal(st, 80, scans[0].Port)
		assert.NotEmpty(st, scans[0].RecordedAt)
	})

	t.Run("rejects payload missing timestamp", func(st *testing.T) {
		status, body := post(
			st,
			srv.URL,
			"application/json",
			`{"host_identifier":"h9","open_ports":{"tcp":[22]}}`,
		)

		assert.Equal(st, http.StatusBadRequest, status)
		assert.Equal(st, "Missing required fields", body["error"])
		assert.Len(st, getScans(st, srv.URL), 1)
	})

	t.Run("rejects non json payload", func(st *testing.T) {
		status, body := post(st, srv.URL, "text/plain", `host=h1`)

		assert.Equal(st, http.StatusBadRequest, status)
		assert.Equal(st, "Request must be JSON", body["error"])
		assert.Len(st, getScans(st, srv.URL), 1)
	})

	t.Run("rejects malformed json", func(st *testing.T) {
		status, body := post(st, srv.URL, "application/json; charset=utf-8", `{"host_identifier":`)

		assert.Equal(st, http.StatusBadRequest, status)
		assert.NotEmpty(st, body["error"])
		assert.Len(st, getScans(st, srv.URL), 1)
	})

	t.Run("returns newest scans first", func(st *testing.T) {
		status, _ := post(
			st,
			srv.URL,
			"application/json",
			`{"host_identifier":"h1","timestamp":1800000000,"open_ports":{"tcp":[443],"udp":[53]}}`,
		)

		require.Equal(st, http.StatusOK, status)

		scans := getScans(st, srv.URL)

		require.Len(st, scans, 3)
		assert.Equal(st, 443, scans[0].Port)
		assert.Equal(st, "tcp", scans[0].Protocol)
		assert.Equal(st, 53, scans[1].Port)
		assert.Equal(st, "udp", scans[1].Protocol)
		assert.Equal(st, 80, scans[2].Port)
	})

	t.Run("rejects wrong method", func(st *testing.T) {
		resp, err := http.Get(srv.URL + "/receive")
		require.NoError(st, err)
		resp.Body.Close()

		assert.Equal(st, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestServerFailures(t *testing.T) {
	ctrl := gomock.NewController(t)

	defer ctrl.Finish()

	mockService := mock_store.NewMockService(ctrl)

	conf := config.Config{ReceiverPort: 5000, QueryLimit: 10}

	srv := httptest.NewServer(receiver.NewServer(conf, mockService).Handler())
	defer srv.Close()

	t.Run("answers 500 on persistence failure", func(st *testing.T) {
		mockService.EXPECT().Ingest(gomock.Any(), gomock.Any()).Return(0, errors.New("disk I/O error"))

		status, body := post(
			st,
			srv.URL,
			"application/json",
			`{"host_identifier":"h1","timestamp":1,"open_ports":{"tcp":[80]}}`,
		)

		assert.Equal(st, http.StatusInternalServerError, status)
		assert.Equal(st, "disk I/O error", body["error"])
	})

	t.Run("answers 500 on query failure", func(st *testing.T) {
		mockService.EXPECT().Recent(gomock.Any(), 10).Return(nil, errors.New("locked"))

		resp, err := http.Get(srv.URL + "/scans")
		require.NoError(st, err)
		resp.Body.Close()

		assert.Equal(st, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("survives a panicking handler", func(st *testing.T) {
		mockService.EXPECT().
			Recent(gomock.Any(), 10).
			DoAndReturn(func(context.Context, int) ([]*store.View, error) {
				panic("nil map")
			})

		resp, err := http.Get(srv.URL + "/scans")
		require.NoError(st, err)
		resp.Body.Close()

		assert.Equal(st, http.StatusInternalServerError, resp.StatusCode)

		mockService.EXPECT().Recent(gomock.Any(), 10).Return([]*store.View{}, nil)

		assert.Empty(st, getScans(st, srv.URL))
	})
}

func TestListenAndServe(t *testing.T) {
	ctrl := gomock.NewController(t)

	defer ctrl.Finish()

	server := receiver.NewServer(config.Config{ReceiverPort: 0, QueryLimit: 10}, mock_store.NewMockService(ctrl))

	ctx, cancel := context.WithCancel(context.Background())

	errChan := make(chan error, 1)

	go func() {
		errChan <- server.ListenAndServe(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
