package tradingeconomics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchMacroWithoutKeyIsEmpty(t *testing.T) {
	events, err := New("", "http://unused", 20).FetchMacro(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFetchMacroParsesCalendar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calendar", r.URL.Path)
		assert.Equal(t, "key", r.URL.Query().Get("c"))
		_, _ = w.Write([]byte(`[
			{"Event":"CPI YoY","Country":"United States","Date":"2024-06-12T12:30:00","Importance":3,"Actual":"3.3%","Forecast":"3.4%","Previous":null},
			{"event":"FOMC Rate Decision","country":"United States","date":"2024-06-12T18:00:00","importance":3},
			{"Event":"Retail Sales","Country":"Germany","Importance":1}
		]`))
	}))
	defer srv.Close()

	events, err := New("key", srv.URL, 2).FetchMacro(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "CPI YoY", events[0].Title)
	assert.Equal(t, 3, events[0].Importance)
	assert.Equal(t, "3.3%", events[0].Actual)
	assert.Equal(t, "", events[0].Previous)
	assert.Equal(t, time.Date(2024, 6, 12, 12, 30, 0, 0, time.UTC), events[0].Time)

	assert.Equal(t, "FOMC Rate Decision", events[1].Title)
	assert.Equal(t, 3, events[1].Importance)
}

func TestFetchMacroNonArrayBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"quota"}`))
	}))
	defer srv.Close()

	events, err := New("key", srv.URL, 20).FetchMacro(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}
