package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tractor-lite/card"
	"tractor-lite/tractor"
)

func staticToken(token string) TokenSource {
	return TokenFunc(func() (string, error) { return token, nil })
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL + "/api", Credentials: staticToken("tok-1")})
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	return c, srv
}

func TestClient_TableAttachesBearerAndNormalizes(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/game/g1/table" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("missing bearer header, got %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing request id")
		}
		fmt.Fprint(w, `{"success":true,"game":{"gameId":"g1","status":"calling","currentLevel":"2","players":[],"myHand":[{"suit":"hearts","value":"K"}],"myPosition":1}}`)
	}))

	view, err := c.Table(context.Background(), "g1")
	if err != nil {
		t.Fatalf("Table err: %v", err)
	}
	if view.Status != tractor.StatusCalling {
		t.Fatalf("status = %s", view.Status)
	}
	if view.MyHand.Count() != 1 || view.MyHand[0] != (card.Card{Suit: card.Heart, Value: card.ValueK}) {
		t.Fatalf("hand = %v", view.MyHand)
	}
}

func TestClient_UnauthorizedIsTerminal(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"success":false,"error":"token expired"}`)
	}))

	_, err := c.Table(context.Background(), "g1")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_NotFoundStopsPolling(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"success":false,"error":"no such game"}`)
	}))

	_, err := c.Table(context.Background(), "gone")
	if !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestClient_RejectionCarriesServerMessage(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"success":false,"error":"invalid play: must follow suit"}`)
	}))

	err := c.Play(context.Background(), "g1", []int{0, 1})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Message != "invalid play: must follow suit" {
		t.Fatalf("unexpected message %q", reqErr.Message)
	}
}

func TestClient_MalformedBodyIsTransient(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>gateway timeout</html>`)
	}))

	_, err := c.Table(context.Background(), "g1")
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrGameNotFound) {
		t.Fatalf("malformed body must not map to terminal errors: %v", err)
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		t.Fatalf("malformed body must not be a rejection: %v", err)
	}
}

func TestClient_ExpiredCredentialShortCircuits(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c, err := New(Config{
		BaseURL: srv.URL + "/api",
		Credentials: TokenFunc(func() (string, error) {
			return "", errors.New("token expired")
		}),
	})
	if err != nil {
		t.Fatalf("New err: %v", err)
	}

	_, err = c.Table(context.Background(), "g1")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if called {
		t.Fatalf("request must not be sent with a known-expired credential")
	}
}

func TestClient_CallDealerWireShape(t *testing.T) {
	var gotBody string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		fmt.Fprint(w, `{"success":true}`)
	}))

	if err := c.CallDealer(context.Background(), "g1", card.Heart, []int{0, 3}); err != nil {
		t.Fatalf("CallDealer err: %v", err)
	}
	want := `{"suit":"hearts","cardIndices":[0,3]}`
	if gotBody != want {
		t.Fatalf("body = %s, want %s", gotBody, want)
	}
}
