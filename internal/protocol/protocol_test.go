package protocol_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvignite/ignite/internal/codec"
	"github.com/kvignite/ignite/internal/protocol"
)

func TestRequestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	reqs := []protocol.Request{
		protocol.NewSetRequest("a", "1"),
		protocol.NewGetRequest("a"),
		protocol.NewRemoveRequest("a"),
	}
	for _, req := range reqs {
		_, err := codec.Encode(&buf, req)
		require.NoError(t, err)
	}

	dec := codec.NewDecoder(&buf)
	for _, want := range reqs {
		var got protocol.Request
		require.NoError(t, dec.Decode(&got))
		require.Equal(t, want, got)
	}
}

func TestResponseRoundTripFoundAndAbsent(t *testing.T) {
	var buf bytes.Buffer
	resps := []protocol.Response{
		protocol.NewGetResponse(protocol.OkValue("v", true)),
		protocol.NewGetResponse(protocol.OkValue("", false)),
		protocol.NewSetResponse(protocol.OkUnit()),
		protocol.NewRemoveResponse(protocol.ErrResult("Key not found")),
	}
	for _, resp := range resps {
		_, err := codec.Encode(&buf, resp)
		require.NoError(t, err)
	}

	dec := codec.NewDecoder(&buf)

	var got protocol.Response
	require.NoError(t, dec.Decode(&got))
	require.True(t, got.Result.IsOk())
	require.True(t, got.Result.Found)
	require.Equal(t, "v", *got.Result.Value)

	require.NoError(t, dec.Decode(&got))
	require.True(t, got.Result.IsOk())
	require.False(t, got.Result.Found)

	require.NoError(t, dec.Decode(&got))
	require.True(t, got.Result.IsOk())

	require.NoError(t, dec.Decode(&got))
	require.False(t, got.Result.IsOk())
	require.Equal(t, "Key not found", got.Result.Error())
}
