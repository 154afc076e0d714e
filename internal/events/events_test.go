package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/ariefcatur/go-bookstore/internal/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndDecode(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	env, err := events.New(events.BookAdded, events.BookKey(7), events.BookPayload{
		BookID: 7, CategoryID: 2, Title: "Dune", Author: "Herbert",
		Price: decimal.RequireFromString("19.9900"),
	}, at)
	require.NoError(t, err)

	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, "book:7", env.Key)
	assert.Equal(t, at, env.OccurredAt)

	p, err := events.Decode[events.BookPayload](env)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.BookID)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("19.99")))
}

func TestNew_UniqueIDs(t *testing.T) {
	a, err := events.New(events.CartCheckedOut, events.CartKey(1), events.CartCheckedOutPayload{UserID: 1}, time.Now())
	require.NoError(t, err)
	b, err := events.New(events.CartCheckedOut, events.CartKey(1), events.CartCheckedOutPayload{UserID: 1}, time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, a.EventID, b.EventID)
}

func TestRecorder(t *testing.T) {
	var r events.Recorder
	env, err := events.New(events.CategoryCreated, events.CategoryKey(1), events.CategoryPayload{CategoryID: 1, Name: "Fiction"}, time.Now())
	require.NoError(t, err)
	require.NoError(t, r.Publish(context.Background(), env))
	assert.Equal(t, []string{events.CategoryCreated}, r.Types())
}
