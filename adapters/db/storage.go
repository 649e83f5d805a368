package db

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	_ "github.com/jackc/pgx/v5/stdlib"

	"request-tracker/core"
)

type DB struct {
	log  *slog.Logger
	conn *sqlx.DB
}

func New(log *slog.Logger, address string) (*DB, error) {

	db, err := sqlx.Connect("pgx", address)
	if err != nil {
		log.Error("connection problem", "address", address, "error", err)
		return nil, err
	}

	return &DB{
		log:  log,
		conn: db,
	}, nil
}

type requestRow struct {
	ID                      string         `db:"id"`
	ReferenceNumber         string         `db:"reference_number"`
	Timestamp               string         `db:"submitted_at"`
	Email                   string         `db:"email"`
	Name                    string         `db:"name"`
	TypeOfClient            string         `db:"type_of_client"`
	Classification          string         `db:"classification"`
	ProjectTitle            string         `db:"project_title"`
	PhilgepsReferenceNumber string         `db:"philgeps_reference_number"`
	ProductType             string         `db:"product_type"`
	RequestType             string         `db:"request_type"`
	DateNeeded              string         `db:"date_needed"`
	SpecialInstructions     string         `db:"special_instructions"`
	AssignedTo              string         `db:"assigned_to"`
	Status                  int            `db:"status"`
	CompletedAt             sql.NullString `db:"completed_at"`
	CanceledAt              sql.NullString `db:"canceled_at"`
	CancellationReason      string         `db:"cancellation_reason"`
	FileURL                 string         `db:"file_url"`
	FileName                string         `db:"file_name"`
	RequesterFileURL        string         `db:"requester_file_url"`
	RequesterFileName       string         `db:"requester_file_name"`
}

func toRow(request core.Request) requestRow {
	row := requestRow{
		ID:                      request.ID,
		ReferenceNumber:         request.ReferenceNumber,
		Timestamp:               request.Timestamp,
		Email:                   request.Email,
		Name:                    request.Name,
		TypeOfClient:            request.TypeOfClient,
		Classification:          request.Classification,
		ProjectTitle:            request.ProjectTitle,
		PhilgepsReferenceNumber: request.PhilgepsReferenceNumber,
		ProductType:             request.ProductType,
		RequestType:             request.RequestType,
		DateNeeded:              request.DateNeeded,
		SpecialInstructions:     request.SpecialInstructions,
		AssignedTo:              request.AssignedTo,
		Status:                  int(request.Status),
		CancellationReason:      request.CancellationReason,
		FileURL:                 request.FileURL,
		FileName:                request.FileName,
		RequesterFileURL:        request.RequesterFileURL,
		RequesterFileName:       request.RequesterFileName,
	}
	if request.CompletedAt != nil {
		row.CompletedAt = sql.NullString{String: *request.CompletedAt, Valid: true}
	}
	if request.CanceledAt != nil {
		row.CanceledAt = sql.NullString{String: *request.CanceledAt, Valid: true}
	}
	return row
}

func (r requestRow) toRequest() core.Request {
	request := core.Request{
		ID:                      r.ID,
		ReferenceNumber:         r.ReferenceNumber,
		Timestamp:               r.Timestamp,
		Email:                   r.Email,
		Name:                    r.Name,
		TypeOfClient:            r.TypeOfClient,
		Classification:          r.Classification,
		ProjectTitle:            r.ProjectTitle,
		PhilgepsReferenceNumber: r.PhilgepsReferenceNumber,
		ProductType:             r.ProductType,
		RequestType:             r.RequestType,
		DateNeeded:              r.DateNeeded,
		SpecialInstructions:     r.SpecialInstructions,
		AssignedTo:              r.AssignedTo,
		Status:                  core.Status(r.Status),
		CancellationReason:      r.CancellationReason,
		FileURL:                 r.FileURL,
		FileName:                r.FileName,
		RequesterFileURL:        r.RequesterFileURL,
		RequesterFileName:       r.RequesterFileName,
	}
	if r.CompletedAt.Valid {
		completedAt := r.CompletedAt.String
		request.CompletedAt = &completedAt
	}
	if r.CanceledAt.Valid {
		canceledAt := r.CanceledAt.String
		request.CanceledAt = &canceledAt
	}
	return request
}

const requestColumns = `id, reference_number, submitted_at, email, name, type_of_client,
       classification, project_title, philgeps_reference_number, product_type,
       request_type, date_needed, special_instructions, assigned_to, status,
       completed_at, canceled_at, cancellation_reason, file_url, file_name,
       requester_file_url, requester_file_name`

func (db *DB) AddRequest(ctx context.Context, request core.Request) error {

	_, err := db.conn.NamedExecContext(ctx,
		`INSERT INTO requests (`+requestColumns+`)
         VALUES (:id, :reference_number, :submitted_at, :email, :name, :type_of_client,
                 :classification, :project_title, :philgeps_reference_number, :product_type,
                 :request_type, :date_needed, :special_instructions, :assigned_to, :status,
                 :completed_at, :canceled_at, :cancellation_reason, :file_url, :file_name,
                 :requester_file_url, :requester_file_name)`,
		toRow(request))
	if err != nil {
		return errors.Wrap(err, "insert request")
	}

	return nil
}

func (db *DB) GetRequest(ctx context.Context, id string) (core.Request, error) {

	var row requestRow
	err := db.conn.GetContext(ctx, &row,
		`SELECT `+requestColumns+` FROM requests WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return core.Request{}, core.ErrRequestNotFound
	}
	if err != nil {
		return core.Request{}, errors.Wrap(err, "get request")
	}

	return row.toRequest(), nil
}

// ListRequests returns every request, or with assignedTo set, only those
// assigned to that exact name. Empty assignments never match a filter.
// Insertion order is what the dashboards expect, they sort client-side.
func (db *DB) ListRequests(ctx context.Context, assignedTo string) ([]core.Request, error) {

	var (
		rows []requestRow
		err  error
	)
	if assignedTo == "" {
		err = db.conn.SelectContext(ctx, &rows,
			`SELECT `+requestColumns+` FROM requests ORDER BY seq`)
	} else {
		err = db.conn.SelectContext(ctx, &rows,
			`SELECT `+requestColumns+` FROM requests
             WHERE assigned_to = $1 AND assigned_to <> '' ORDER BY seq`, assignedTo)
	}
	if err != nil {
		return nil, errors.Wrap(err, "list requests")
	}

	requests := make([]core.Request, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, row.toRequest())
	}

	return requests, nil
}

func (db *DB) SaveRequest(ctx context.Context, request core.Request) error {

	result, err := db.conn.NamedExecContext(ctx,
		`UPDATE requests SET
             date_needed = :date_needed,
             special_instructions = :special_instructions,
             assigned_to = :assigned_to,
             status = :status,
             completed_at = :completed_at,
             canceled_at = :canceled_at,
             cancellation_reason = :cancellation_reason,
             file_url = :file_url,
             file_name = :file_name,
             requester_file_url = :requester_file_url,
             requester_file_name = :requester_file_name
         WHERE id = :id`,
		toRow(request))
	if err != nil {
		return errors.Wrap(err, "save request")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "save request rows affected")
	}
	if affected == 0 {
		return core.ErrRequestNotFound
	}

	return nil
}

func (db *DB) DeleteRequest(ctx context.Context, id string) error {

	result, err := db.conn.ExecContext(ctx, `DELETE FROM requests WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete request")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete request rows affected")
	}
	if affected == 0 {
		return core.ErrRequestNotFound
	}

	return nil
}

type memberRow struct {
	ID              string `db:"id"`
	Name            string `db:"name"`
	ProfileImageURL string `db:"profile_image_url"`
}

func (db *DB) ListMembers(ctx context.Context) ([]core.TeamMember, error) {

	var rows []memberRow
	err := db.conn.SelectContext(ctx, &rows,
		`SELECT id, name, profile_image_url FROM team_members ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, "list team members")
	}

	members := make([]core.TeamMember, 0, len(rows))
	for _, row := range rows {
		members = append(members, core.TeamMember(row))
	}

	return members, nil
}

func (db *DB) GetMember(ctx context.Context, id string) (core.TeamMember, error) {

	var row memberRow
	err := db.conn.GetContext(ctx, &row,
		`SELECT id, name, profile_image_url FROM team_members WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return core.TeamMember{}, core.ErrMemberNotFound
	}
	if err != nil {
		return core.TeamMember{}, errors.Wrap(err, "get team member")
	}

	return core.TeamMember(row), nil
}

// UpsertMember inserts or refreshes a roster entry. An empty image URL never
// clobbers a stored one, so the startup sync keeps uploaded pictures.
func (db *DB) UpsertMember(ctx context.Context, member core.TeamMember) error {

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO team_members (id, name, profile_image_url)
         VALUES ($1, $2, $3)
         ON CONFLICT (id) DO UPDATE SET
             name = EXCLUDED.name,
             profile_image_url = COALESCE(NULLIF(EXCLUDED.profile_image_url, ''), team_members.profile_image_url)`,
		member.ID, member.Name, member.ProfileImageURL)
	if err != nil {
		return errors.Wrap(err, "upsert team member")
	}

	return nil
}
