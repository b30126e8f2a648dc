package utxo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExplorerForTest(endpoints ...string) *ExplorerClient {
	return NewExplorerClient(endpoints, 2*time.Second, zerolog.Nop())
}

func TestExplorerClient_TipHeight(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/blocks/tip/height", r.URL.Path)
		w.Write([]byte("845001\n"))
	}))
	defer srv.Close()

	c := newExplorerForTest(srv.URL)
	height, err := c.TipHeight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(845001), height)
}

func TestExplorerClient_ListUnspent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/address/bc1qsource/utxo", r.URL.Path)
		w.Write([]byte(`[
			{"txid":"aa11","vout":0,"value":150000,"status":{"confirmed":true,"block_height":845000}},
			{"txid":"bb22","vout":1,"value":90000,"status":{"confirmed":false}}
		]`))
	}))
	defer srv.Close()

	c := newExplorerForTest(srv.URL)
	unspent, err := c.ListUnspent(context.Background(), "bc1qsource")
	require.NoError(t, err)
	require.Len(t, unspent, 2)
	assert.Equal(t, int64(845000), unspent[0].BlockHeight)
	assert.Zero(t, unspent[1].BlockHeight, "unconfirmed outputs carry no height")
}

func TestExplorerClient_ReadFailsOverToNextEndpoint(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusBadGateway)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("845002"))
	}))
	defer good.Close()

	c := newExplorerForTest(bad.URL, good.URL)
	height, err := c.TipHeight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(845002), height)
}

func TestExplorerClient_ReadAllEndpointsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newExplorerForTest(srv.URL, srv.URL)
	_, err := c.TipHeight(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all explorer endpoints failed")
}

func TestExplorerClient_BroadcastReturnsTxID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tx", r.URL.Path)
		w.Write([]byte("cafe0001\n"))
	}))
	defer srv.Close()

	c := newExplorerForTest(srv.URL)
	txid, err := c.Broadcast(context.Background(), "0200deadbeef")
	require.NoError(t, err)
	assert.Equal(t, "cafe0001", txid)
}

func TestExplorerClient_BroadcastRejectionSurfacedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "sendrawtransaction RPC error: min relay fee not met", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newExplorerForTest(srv.URL)
	_, err := c.Broadcast(context.Background(), "0200deadbeef")
	require.Error(t, err)

	var rejected *BroadcastError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "sendrawtransaction RPC error: min relay fee not met", rejected.NodeMessage)
}

func TestExplorerClient_BroadcastDoesNotFailOver(t *testing.T) {
	var secondHits atomic.Int64
	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "txn-already-in-mempool", http.StatusBadRequest)
	}))
	defer first.Close()
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondHits.Add(1)
		w.Write([]byte("cafe0002"))
	}))
	defer second.Close()

	c := newExplorerForTest(first.URL, second.URL)
	_, err := c.Broadcast(context.Background(), "0200deadbeef")
	require.Error(t, err)
	assert.Zero(t, secondHits.Load(), "a rejected broadcast must not be replayed on another endpoint")
}
