package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/mhasan/chatwave/internal/realtime"
	"github.com/mhasan/chatwave/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocket_HandshakeRejectsWithoutToken(t *testing.T) {
	ts := testutil.NewTestServer(t)

	conn, resp, err := testutil.DialWS(t, ts.WebSocketURL(), "")
	if conn != nil {
		conn.Close()
	}
	require.Error(t, err, "anonymous handshakes are rejected")
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebSocket_HandshakeRejectsInvalidToken(t *testing.T) {
	ts := testutil.NewTestServer(t)

	conn, resp, err := testutil.DialWS(t, ts.WebSocketURL(), "garbage-token")
	if conn != nil {
		conn.Close()
	}
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebSocket_ConnectedAck(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	client := testutil.NewWSClient(t, ts.WebSocketURL(), token)

	event := client.WaitForEvent(realtime.EventTypeConnected, 5*time.Second)

	var payload realtime.ConnectedPayload
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	require.NotNil(t, payload.User)
	assert.Equal(t, user.ID, payload.User.ID)

	// Raw payload must never leak credentials.
	assert.NotContains(t, string(event.Payload), "password")
}

func TestWebSocket_NewMessageDelivery(t *testing.T) {
	ts := testutil.NewTestServer(t)

	alice, aliceToken := testutil.NewUserBuilder().WithFirstName("alice").BuildAndAuthenticate(t, ts)
	bob, bobToken := testutil.NewUserBuilder().WithFirstName("bob").BuildAndAuthenticate(t, ts)

	bobWS := testutil.NewWSClient(t, ts.WebSocketURL(), bobToken)
	bobWS.WaitForEvent(realtime.EventTypeConnected, 5*time.Second)

	resp := testutil.PostJSON(t, ts.APIURL("/chats/new-message"), aliceToken, map[string]string{
		"receiverId": bob.ID.String(),
		"message":    "hello over the wire",
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusAccepted)

	event := bobWS.WaitForEvent(realtime.EventTypeNewMessage, 5*time.Second)

	var payload realtime.NewMessagePayload
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	require.NotNil(t, payload.User)
	assert.Equal(t, alice.ID, payload.User.ID, "notification carries the sender's public view")
	assert.NotContains(t, string(event.Payload), "password")

	// Exactly one notification per message.
	bobWS.ExpectNoEvent(realtime.EventTypeNewMessage, 500*time.Millisecond)
}

func TestWebSocket_OfflineReceiverStillSends(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, aliceToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	bob, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	// Bob has no live connection: the send succeeds anyway.
	resp := testutil.PostJSON(t, ts.APIURL("/chats/new-message"), aliceToken, map[string]string{
		"receiverId": bob.ID.String(),
		"message":    "message to nobody listening",
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusAccepted)

	var count int64
	require.NoError(t, ts.DB.DB.Table("messages").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestWebSocket_SecondConnectionReplacesFirst(t *testing.T) {
	ts := testutil.NewTestServer(t)

	alice, aliceToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	bob, bobToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	firstWS := testutil.NewWSClient(t, ts.WebSocketURL(), bobToken)
	firstWS.WaitForEvent(realtime.EventTypeConnected, 5*time.Second)

	// A second device logs in: last connection wins.
	secondWS := testutil.NewWSClient(t, ts.WebSocketURL(), bobToken)
	secondWS.WaitForEvent(realtime.EventTypeConnected, 5*time.Second)

	require.Eventually(t, func() bool {
		return ts.Registry.Count() >= 1 && ts.Registry.Lookup(bob.ID) != nil
	}, 2*time.Second, 50*time.Millisecond)

	resp := testutil.PostJSON(t, ts.APIURL("/chats/new-message"), aliceToken, map[string]string{
		"receiverId": bob.ID.String(),
		"message":    "which device gets this?",
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusAccepted)

	event := secondWS.WaitForEvent(realtime.EventTypeNewMessage, 5*time.Second)
	var payload realtime.NewMessagePayload
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, alice.ID, payload.User.ID)

	firstWS.ExpectNoEvent(realtime.EventTypeNewMessage, 500*time.Millisecond)
}

func TestWebSocket_DisconnectUnregisters(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	client := testutil.NewWSClient(t, ts.WebSocketURL(), token)
	client.WaitForEvent(realtime.EventTypeConnected, 5*time.Second)

	require.NotNil(t, ts.Registry.Lookup(user.ID))

	client.Close()

	require.Eventually(t, func() bool {
		return ts.Registry.Lookup(user.ID) == nil
	}, 5*time.Second, 50*time.Millisecond, "disconnect must clear the registry entry")
}
