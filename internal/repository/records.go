package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/resume"
)

// ParseRecord is one stored outcome of processing a document.
// Absent fields are stored as NULL, never as sentinel strings.
type ParseRecord struct {
	ID           uuid.UUID
	SourcePath   string
	ContentHash  string
	Status       constants.ParseStatus
	Email        *string
	Skills       []string
	Education    []string
	Experience   *string
	Method       string
	ErrorMessage *string
	CreatedAt    time.Time
}

// Record rebuilds the resume record from the stored columns.
func (p *ParseRecord) Record() resume.Record {
	var rec resume.Record
	if p.Email != nil {
		rec.Email = resume.Found(*p.Email)
	}
	if len(p.Skills) > 0 {
		rec.Skills = resume.Found(p.Skills)
	}
	if len(p.Education) > 0 {
		rec.Education = resume.Found(p.Education)
	}
	if p.Experience != nil {
		rec.Experience = resume.Found(*p.Experience)
	}
	return rec
}

// SaveParsedRequest wraps parameters for storing a successful parse.
type SaveParsedRequest struct {
	SourcePath  string
	ContentHash string
	Method      string
	Record      resume.Record
}

// timeLayout is fixed width so that created_at sorts lexically in both dialects.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

var now = func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

type ParseRecordRepository interface {
	SaveParsed(ctx context.Context, req SaveParsedRequest) (*ParseRecord, error)
	SaveFailure(ctx context.Context, sourcePath, contentHash string, cause error) (*ParseRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ParseRecord, error)
	GetLatestByHash(ctx context.Context, contentHash string) (*ParseRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*ParseRecord, error)
}

type parseRecordRepo struct {
	db     *DB
	logger *slog.Logger
}

func NewParseRecordRepository(db *DB, logger *slog.Logger) ParseRecordRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &parseRecordRepo{db: db, logger: logger}
}

const selectColumns = `SELECT id, source_path, content_hash, status, email, skills, education,
	experience, method, error_message, created_at FROM parse_record`

func (r *parseRecordRepo) SaveParsed(ctx context.Context, req SaveParsedRequest) (*ParseRecord, error) {
	row := &ParseRecord{
		ID:          uuid.New(),
		SourcePath:  req.SourcePath,
		ContentHash: req.ContentHash,
		Status:      constants.ParseStatusParsed,
		Method:      req.Method,
		CreatedAt:   now(),
	}
	if v, ok := req.Record.Email.Get(); ok {
		row.Email = &v
	}
	if v, ok := req.Record.Skills.Get(); ok {
		row.Skills = v
	}
	if v, ok := req.Record.Education.Get(); ok {
		row.Education = v
	}
	if v, ok := req.Record.Experience.Get(); ok {
		row.Experience = &v
	}
	if err := r.insert(ctx, row); err != nil {
		r.logger.Error("failed to save parse record", "source_path", req.SourcePath, "error", err)
		return nil, err
	}
	return row, nil
}

func (r *parseRecordRepo) SaveFailure(ctx context.Context, sourcePath, contentHash string, cause error) (*ParseRecord, error) {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	row := &ParseRecord{
		ID:           uuid.New(),
		SourcePath:   sourcePath,
		ContentHash:  contentHash,
		Status:       constants.ParseStatusFailed,
		ErrorMessage: &msg,
		CreatedAt:    now(),
	}
	if err := r.insert(ctx, row); err != nil {
		r.logger.Error("failed to save parse failure", "source_path", sourcePath, "error", err)
		return nil, err
	}
	return row, nil
}

func (r *parseRecordRepo) insert(ctx context.Context, row *ParseRecord) error {
	if err := validStatus(string(row.Status)); err != nil {
		return err
	}
	skills, err := encodeList(row.Skills)
	if err != nil {
		return err
	}
	education, err := encodeList(row.Education)
	if err != nil {
		return err
	}
	_, err = r.db.SQL.ExecContext(ctx, r.db.rebind(`INSERT INTO parse_record
		(id, source_path, content_hash, status, email, skills, education, experience, method, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		row.ID.String(), row.SourcePath, row.ContentHash, string(row.Status),
		row.Email, skills, education, row.Experience,
		nullString(row.Method), row.ErrorMessage, row.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("%w: insert parse record: %v", common.ErrDatabase, err)
	}
	return nil
}

func (r *parseRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*ParseRecord, error) {
	row := r.db.SQL.QueryRowContext(ctx, r.db.rebind(selectColumns+` WHERE id = ?`), id.String())
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: parse record %s", common.ErrNotFound, id)
	}
	if err != nil {
		r.logger.Error("failed to get parse record", "id", id, "error", err)
		return nil, err
	}
	return rec, nil
}

func (r *parseRecordRepo) GetLatestByHash(ctx context.Context, contentHash string) (*ParseRecord, error) {
	row := r.db.SQL.QueryRowContext(ctx,
		r.db.rebind(selectColumns+` WHERE content_hash = ? ORDER BY created_at DESC LIMIT 1`), contentHash)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: parse record with hash %s", common.ErrNotFound, contentHash)
	}
	if err != nil {
		r.logger.Error("failed to get parse record by hash", "content_hash", contentHash, "error", err)
		return nil, err
	}
	return rec, nil
}

func (r *parseRecordRepo) ListRecent(ctx context.Context, limit int) ([]*ParseRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.SQL.QueryContext(ctx,
		r.db.rebind(selectColumns+` ORDER BY created_at DESC, id LIMIT ?`), limit)
	if err != nil {
		r.logger.Error("failed to list parse records", "error", err)
		return nil, fmt.Errorf("%w: list parse records: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []*ParseRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list parse records: %v", common.ErrDatabase, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*ParseRecord, error) {
	var (
		id, status, created            string
		email, skills, education       sql.NullString
		experience, method, errMessage sql.NullString
		rec                            ParseRecord
	)
	err := s.Scan(&id, &rec.SourcePath, &rec.ContentHash, &status, &email, &skills, &education,
		&experience, &method, &errMessage, &created)
	if err != nil {
		return nil, err
	}
	if rec.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: bad id %q: %v", common.ErrDatabase, id, err)
	}
	if rec.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("%w: bad created_at %q: %v", common.ErrDatabase, created, err)
	}
	rec.Status = constants.ParseStatus(status)
	rec.Email = ptr(email)
	rec.Experience = ptr(experience)
	rec.ErrorMessage = ptr(errMessage)
	rec.Method = method.String
	if rec.Skills, err = decodeList(skills); err != nil {
		return nil, err
	}
	if rec.Education, err = decodeList(education); err != nil {
		return nil, err
	}
	return &rec, nil
}
