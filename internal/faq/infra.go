package faq

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/Vovarama1992/kpd_assistant/internal/config"
	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

//go:embed faq.json
var embeddedFAQ []byte

// NewSource выбирает источник по строке FAQ_SOURCE:
// embedded | file:<path> | postgres | s3:<key>.
func NewSource(cfg *config.Config) (Source, error) {
	kind, arg, _ := strings.Cut(cfg.FAQSource, ":")

	switch kind {
	case "", "embedded":
		return EmbeddedSource{}, nil
	case "file":
		if arg == "" {
			return nil, fmt.Errorf("faq source %q: missing path", cfg.FAQSource)
		}
		return FileSource{Path: arg}, nil
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("faq source postgres: database_url: %w", config.ErrMissing)
		}
		return PostgresSource{DSN: cfg.DatabaseURL}, nil
	case "s3":
		if arg == "" {
			return nil, fmt.Errorf("faq source %q: missing object key", cfg.FAQSource)
		}
		return NewS3Source(cfg.S3, arg)
	}

	return nil, fmt.Errorf("unknown faq source %q", cfg.FAQSource)
}

func decodeEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode faq json: %w", err)
	}
	return entries, nil
}

// ===== EMBEDDED =====

type EmbeddedSource struct{}

func (EmbeddedSource) Load(_ context.Context) ([]Entry, error) {
	return decodeEntries(bytes.NewReader(embeddedFAQ))
}

// ===== FILE =====

type FileSource struct {
	Path string
}

func (s FileSource) Load(_ context.Context) ([]Entry, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open faq file: %w", err)
	}
	defer f.Close()

	return decodeEntries(f)
}

// ===== POSTGRES =====

type PostgresSource struct {
	DSN string
}

func (s PostgresSource) Load(ctx context.Context) ([]Entry, error) {
	db, err := sql.Open("postgres", s.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()

	return loadRows(ctx, db)
}

func loadRows(ctx context.Context, db *sql.DB) ([]Entry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, question, answer, url
		FROM faq_entries
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query faq_entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var url sql.NullString
		if err := rows.Scan(&e.ID, &e.Question, &e.Answer, &url); err != nil {
			return nil, err
		}
		if url.Valid {
			u := url.String
			e.URL = &u
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ===== S3 =====

type S3Source struct {
	client *minio.Client
	bucket string
	key    string
}

func NewS3Source(cfg config.S3Config, key string) (*S3Source, error) {
	return newS3Source(cfg, key, nil)
}

// transport == nil — стандартный транспорт minio.
func newS3Source(cfg config.S3Config, key string, transport http.RoundTripper) (*S3Source, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("faq source s3: endpoint/bucket: %w", config.ErrMissing)
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    true,
		Region:    cfg.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}

	return &S3Source{client: client, bucket: cfg.Bucket, key: key}, nil
}

func (s *S3Source) Load(ctx context.Context) ([]Entry, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get s3 object %s/%s: %w", s.bucket, s.key, err)
	}
	defer obj.Close()

	return decodeEntries(obj)
}
