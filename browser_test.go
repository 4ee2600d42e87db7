package main

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedThoughts(t *testing.T, store *fakeStorage, userID int64, n int) []string {
	t.Helper()
	notes := make([]string, 0, n)
	for i := 0; i < n; i++ {
		text := fmt.Sprintf("мысль %d", i)
		_, err := store.CreateThought(context.Background(), userID, text, time.Now())
		require.NoError(t, err)
		notes = append(notes, text)
	}
	return notes
}

func thoughtPager(store *fakeStorage) pager[Thought] {
	return pager[Thought]{at: store.ThoughtAt, count: store.CountThoughts}
}

func TestEndThenBackVisitsReverseInsertionOrder(t *testing.T) {
	const userID = int64(1)
	store := &fakeStorage{}
	notes := seedThoughts(t, store, userID, 4)
	p := thoughtPager(store)
	ctx := context.Background()

	index := p.move(ctx, userID, 0, moveEnd)
	require.Equal(t, 3, index)

	visited := []string{}
	for {
		record, status, err := p.show(ctx, userID, index)
		require.NoError(t, err)
		require.Equal(t, browseRecord, status)
		visited = append(visited, record.Notes)
		next := p.move(ctx, userID, index, moveBack)
		if next == index {
			break
		}
		index = next
	}

	assert.Equal(t, []string{notes[3], notes[2], notes[1], notes[0]}, visited)
	assert.Equal(t, 0, index)

	// back на нулевой позиции ничего не меняет
	assert.Equal(t, 0, p.move(ctx, userID, 0, moveBack))
}

func TestForwardPastLastIsNoOp(t *testing.T) {
	const userID = int64(1)
	store := &fakeStorage{}
	seedThoughts(t, store, userID, 2)
	p := thoughtPager(store)
	ctx := context.Background()

	index := p.move(ctx, userID, 0, moveForward)
	require.Equal(t, 1, index)

	assert.Equal(t, 1, p.move(ctx, userID, 1, moveForward))

	record, status, err := p.show(ctx, userID, 1)
	require.NoError(t, err)
	require.Equal(t, browseRecord, status)
	assert.Equal(t, "мысль 1", record.Notes)
}

func TestBeginAndEndRequireRecords(t *testing.T) {
	const userID = int64(1)
	store := &fakeStorage{}
	p := thoughtPager(store)
	ctx := context.Background()

	assert.Equal(t, 7, p.move(ctx, userID, 7, moveBegin))
	assert.Equal(t, 7, p.move(ctx, userID, 7, moveEnd))

	seedThoughts(t, store, userID, 3)
	assert.Equal(t, 0, p.move(ctx, userID, 7, moveBegin))
	assert.Equal(t, 2, p.move(ctx, userID, 7, moveEnd))
}

func TestBrowseOrderSurvivesEqualTimestamps(t *testing.T) {
	const userID = int64(1)
	store := &fakeStorage{}
	ctx := context.Background()

	// метки времени Telegram имеют секундную точность: записи одной
	// секунды различимы только по порядку добавления
	stamp := time.Unix(1700000000, 0)
	for i := 0; i < 3; i++ {
		_, err := store.CreateThought(ctx, userID, fmt.Sprintf("мысль %d", i), stamp)
		require.NoError(t, err)
	}
	// перестановка в слайсе не должна влиять на порядок просмотра
	store.thoughts[0], store.thoughts[2] = store.thoughts[2], store.thoughts[0]

	p := thoughtPager(store)
	for i := 0; i < 3; i++ {
		record, status, err := p.show(ctx, userID, i)
		require.NoError(t, err)
		require.Equal(t, browseRecord, status)
		assert.Equal(t, fmt.Sprintf("мысль %d", i), record.Notes)
	}
}

func TestMoveKeepsIndexOnStorageError(t *testing.T) {
	const userID = int64(1)
	store := &fakeStorage{}
	seedThoughts(t, store, userID, 3)
	store.failAll = true
	p := thoughtPager(store)
	ctx := context.Background()

	assert.Equal(t, 1, p.move(ctx, userID, 1, moveForward))
	assert.Equal(t, 1, p.move(ctx, userID, 1, moveBack))
	assert.Equal(t, 1, p.move(ctx, userID, 1, moveEnd))
}

func TestShowDistinguishesEmptyFromError(t *testing.T) {
	const userID = int64(1)
	store := &fakeStorage{}
	p := thoughtPager(store)
	ctx := context.Background()

	record, status, err := p.show(ctx, userID, 0)
	assert.Nil(t, record)
	assert.Equal(t, browseEmpty, status)
	assert.NoError(t, err)

	store.failAll = true
	record, status, err = p.show(ctx, userID, 0)
	assert.Nil(t, record)
	assert.Equal(t, browseFailed, status)
	assert.ErrorIs(t, err, errBoom)
}
