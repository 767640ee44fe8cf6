package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(enableCORS bool) (*httptest.Server, string) {
	handler := NewWebSocketHandler(enableCORS)
	server := httptest.NewServer(handler)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	return server, wsURL
}

func connectWebSocket(t *testing.T, url string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err, "should connect to WebSocket")
	return conn
}

func sendJSONRPCRequest(t *testing.T, conn *websocket.Conn, req JSONRPCRequest) {
	err := conn.WriteJSON(req)
	require.NoError(t, err, "should send request")
}

func readJSONRPCResponse(t *testing.T, conn *websocket.Conn) JSONRPCResponse {
	var resp JSONRPCResponse
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	err := conn.ReadJSON(&resp)
	require.NoError(t, err, "should read response")
	return resp
}

func TestWebSocket_ValidRequest(t *testing.T) {
	setupRouter(t)
	server, wsURL := setupTestServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	sendJSONRPCRequest(t, conn, JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  "window_get",
		ID:      1,
	})
	resp := readJSONRPCResponse(t, conn)

	assert.Equal(t, "2.0", resp.JSONRPC)
	assert.Equal(t, 1, int(resp.ID.(float64)))
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Result)
}

func TestWebSocket_ValidationErrors(t *testing.T) {
	server, wsURL := setupTestServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	tests := []struct {
		name     string
		req      JSONRPCRequest
		wantData string
	}{
		{"wrong version", JSONRPCRequest{JSONRPC: "1.0", Method: "window_get", ID: 1}, errMsgInvalidJSONRPC},
		{"missing id", JSONRPCRequest{JSONRPC: "2.0", Method: "window_get"}, errMsgIDRequired},
		{"missing method", JSONRPCRequest{JSONRPC: "2.0", ID: 1}, errMsgMethodRequired},
	}

	// the same connection stays usable after every error
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sendJSONRPCRequest(t, conn, tt.req)
			resp := readJSONRPCResponse(t, conn)

			require.NotNil(t, resp.Error)
			errMap := resp.Error.(map[string]interface{})
			assert.Equal(t, float64(ErrCodeInvalidRequest), errMap["code"])
			assert.Equal(t, tt.wantData, errMap["data"])
		})
	}
}

func TestWebSocket_MethodNotFound(t *testing.T) {
	server, wsURL := setupTestServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	sendJSONRPCRequest(t, conn, JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  "invalid_method",
		Params:  json.RawMessage(`{}`),
		ID:      "test-id",
	})
	resp := readJSONRPCResponse(t, conn)

	assert.Equal(t, "test-id", resp.ID)
	assert.Nil(t, resp.Result)
	errMap := resp.Error.(map[string]interface{})
	assert.Equal(t, float64(ErrCodeMethodNotFound), errMap["code"])
	assert.Contains(t, fmt.Sprint(errMap["message"]), "Method not found")
}

func TestWebSocket_InvalidJSON(t *testing.T) {
	server, wsURL := setupTestServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{broken`)))
	resp := readJSONRPCResponse(t, conn)

	assert.Nil(t, resp.ID)
	errMap := resp.Error.(map[string]interface{})
	assert.Equal(t, float64(ErrCodeParseError), errMap["code"])
}

func TestWebSocket_BinaryMessageRejected(t *testing.T) {
	server, wsURL := setupTestServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte(`{}`)))
	resp := readJSONRPCResponse(t, conn)

	errMap := resp.Error.(map[string]interface{})
	assert.Equal(t, float64(ErrCodeInvalidRequest), errMap["code"])
	assert.Equal(t, errMsgTextOnly, errMap["data"])
}

func TestWebSocket_GestureSequence(t *testing.T) {
	_, sinks := setupRouter(t)
	server, wsURL := setupTestServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	requests := []JSONRPCRequest{
		{JSONRPC: "2.0", Method: "window_notify", Params: json.RawMessage(`{"title":"Chat","class":"org.telegram.desktop","name":"telegram-desktop"}`), ID: 1},
		{JSONRPC: "2.0", Method: "gesture_invoke", Params: json.RawMessage(`{"gesture":"3-swipe-right"}`), ID: 2},
		{JSONRPC: "2.0", Method: "gesture_invoke", Params: json.RawMessage(`{"gesture":"4-swipe-up"}`), ID: 3},
	}

	for _, req := range requests {
		sendJSONRPCRequest(t, conn, req)
		resp := readJSONRPCResponse(t, conn)
		assert.Equal(t, req.ID, int(resp.ID.(float64)))
		assert.Nil(t, resp.Error)
	}

	assert.Equal(t, []string{"keys"}, sinks.Calls())
}

func TestWebSocket_PingPong(t *testing.T) {
	server, wsURL := setupTestServer(false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	pongReceived := make(chan bool, 1)
	conn.SetPongHandler(func(appData string) error {
		pongReceived <- true
		return nil
	})

	require.NoError(t, conn.WriteMessage(websocket.PingMessage, nil))

	// pong is processed while reading
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case <-pongReceived:
	case <-time.After(2 * time.Second):
		t.Fatal("did not receive pong response")
	}
}

func TestWebSocket_CORS(t *testing.T) {
	t.Run("enabled accepts foreign origin", func(t *testing.T) {
		server, wsURL := setupTestServer(true)
		defer server.Close()

		header := http.Header{}
		header.Set("Origin", "http://example.com")
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
		require.NoError(t, err)
		conn.Close()
	})

	t.Run("disabled rejects foreign origin", func(t *testing.T) {
		server, wsURL := setupTestServer(false)
		defer server.Close()

		header := http.Header{}
		header.Set("Origin", "http://example.com")
		_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
		assert.Error(t, err)
		if resp != nil {
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		}
	})
}

func TestWebSocket_ConcurrentConnections(t *testing.T) {
	setupRouter(t)
	server, wsURL := setupTestServer(false)
	defer server.Close()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
			if !assert.NoError(t, err) {
				return
			}
			defer conn.Close()

			if !assert.NoError(t, conn.WriteJSON(JSONRPCRequest{JSONRPC: "2.0", Method: "gestures_list", ID: id})) {
				return
			}

			var resp JSONRPCResponse
			if assert.NoError(t, conn.ReadJSON(&resp)) {
				assert.Equal(t, id, int(resp.ID.(float64)))
				assert.Nil(t, resp.Error)
			}
		}(i)
	}
	wg.Wait()
}

func TestValidateJSONRPCRequest(t *testing.T) {
	tests := []struct {
		name     string
		req      JSONRPCRequest
		wantData string
	}{
		{"invalid jsonrpc version", JSONRPCRequest{JSONRPC: "1.0", Method: "window_get", ID: 1}, errMsgInvalidJSONRPC},
		{"missing id", JSONRPCRequest{JSONRPC: "2.0", Method: "window_get"}, errMsgIDRequired},
		{"missing method", JSONRPCRequest{JSONRPC: "2.0", ID: 1}, errMsgMethodRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateJSONRPCRequest(tt.req)
			require.NotNil(t, err, "should return validation error")
			assert.Equal(t, ErrCodeInvalidRequest, err.code)
			assert.Equal(t, errTitleInvalidReq, err.message)
			assert.Equal(t, tt.wantData, err.data)
		})
	}

	assert.Nil(t, validateJSONRPCRequest(JSONRPCRequest{JSONRPC: "2.0", Method: "window_get", ID: 1}))
}

func TestNewUpgrader(t *testing.T) {
	req := &http.Request{Host: "localhost:12000", Header: http.Header{}}
	req.Header.Set("Origin", "http://any-origin.com")

	assert.True(t, newUpgrader(true).CheckOrigin(req))
	assert.False(t, newUpgrader(false).CheckOrigin(req))
}

func TestIsSameOrigin(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		host   string
		want   bool
	}{
		{"no origin", "", "localhost:12000", true},
		{"same host", "http://localhost:12000", "localhost:12000", true},
		{"different port", "http://localhost:3000", "localhost:12000", false},
		{"different host", "http://evil.example", "localhost:12000", false},
		{"malformed origin", "://bad", "localhost:12000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{Host: tt.host, Header: http.Header{}}
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, isSameOrigin(req))
		})
	}
}
