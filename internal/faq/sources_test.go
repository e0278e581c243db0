package faq

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Vovarama1992/kpd_assistant/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const faqQuery = `SELECT id, question, answer, url FROM faq_entries ORDER BY position, id`

func TestLoadRows(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(faqQuery).WillReturnRows(
		sqlmock.NewRows([]string{"id", "question", "answer", "url"}).
			AddRow("q1", "Как оплатить?", "Оплата через сайт.", nil).
			AddRow("q2", "Где инструкция?", "По ссылке.", "https://kpd.ru/i"),
	)

	entries, err := loadRows(context.Background(), db)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, entries, 2)
	assert.Equal(t, Entry{ID: "q1", Question: "Как оплатить?", Answer: "Оплата через сайт."}, entries[0])
	assert.Equal(t, "q2", entries[1].ID)
	require.NotNil(t, entries[1].URL)
	assert.Equal(t, "https://kpd.ru/i", *entries[1].URL)
}

func TestLoadRows_Errors(t *testing.T) {
	t.Run("query", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(faqQuery).WillReturnError(errors.New("relation does not exist"))

		_, err = loadRows(context.Background(), db)
		assert.ErrorContains(t, err, "query faq_entries")
	})

	t.Run("row iteration", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(faqQuery).WillReturnRows(
			sqlmock.NewRows([]string{"id", "question", "answer", "url"}).
				AddRow("q1", "Как оплатить?", "Оплата через сайт.", nil).
				AddRow("q2", "Где инструкция?", "По ссылке.", nil).
				RowError(1, errors.New("connection reset")),
		)

		_, err = loadRows(context.Background(), db)
		assert.ErrorContains(t, err, "connection reset")
	})
}

// s3Stub отдаёт один объект по пути /<bucket>/<key>, как path-style S3.
func s3Stub(t *testing.T, path, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` +
				`<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Header().Set("ETag", `"faq-etag"`)
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func s3Config(srv *httptest.Server) config.S3Config {
	return config.S3Config{
		Endpoint:  strings.TrimPrefix(srv.URL, "https://"),
		AccessKey: "ak",
		SecretKey: "sk",
		Bucket:    "assistant",
		Region:    "ru-central1",
	}
}

func TestS3Source_Load(t *testing.T) {
	srv := s3Stub(t, "/assistant/kpd/faq.json", `[
		{"id":"q1","question":"Как оплатить?","answer":"Оплата через сайт."},
		{"id":"q2","question":"Где инструкция?","answer":"По ссылке.","url":"https://kpd.ru/i"}
	]`)

	src, err := newS3Source(s3Config(srv), "kpd/faq.json", srv.Client().Transport)
	require.NoError(t, err)

	store, err := Load(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, []string{"Как оплатить?", "Где инструкция?"}, store.Questions())
	e, ok := store.Lookup("Где инструкция?")
	require.True(t, ok)
	require.NotNil(t, e.URL)
	assert.Equal(t, "https://kpd.ru/i", *e.URL)
}

func TestS3Source_MissingObject(t *testing.T) {
	srv := s3Stub(t, "/assistant/kpd/faq.json", `[]`)

	src, err := newS3Source(s3Config(srv), "kpd/absent.json", srv.Client().Transport)
	require.NoError(t, err)

	_, err = src.Load(context.Background())
	assert.Error(t, err)
}
