package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/offerdesk/pkg/models"
)

const offerColumns = `id, name, email, address, position, start_date, end_date, employment_type, contract_months,
	location, monthly_salary, bonus_details, equity_details, benefits, contingencies, hr_name, reporting_manager,
	manager_email, company_email, buddy_name, offer_sent, offer_sent_date, offer_accepted, offer_accepted_date,
	onboarding_completed, onboarding_completed_date, dispatch_to, dispatch_subject, dispatch_body, state,
	created_at, updated_at`

// SaveOffer upserts by id. created_at is kept from the first insert; the
// timestamps on o are refreshed from what was written.
func (r *SQLiteRepo) SaveOffer(ctx context.Context, o *models.Offer) error {
	if o == nil {
		return fmt.Errorf("offer is nil")
	}
	if o.ID == "" {
		return fmt.Errorf("offer id is required")
	}

	ts := now()
	created := ts
	if !o.CreatedAt.IsZero() {
		created = o.CreatedAt.UTC().UnixMilli()
	}

	var dispatchTo, dispatchSubject, dispatchBody any
	if d := o.Dispatch; d != nil {
		dispatchTo, dispatchSubject, dispatchBody = d.To, d.Subject, d.Body
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO offers (`+offerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			address = excluded.address,
			position = excluded.position,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			employment_type = excluded.employment_type,
			contract_months = excluded.contract_months,
			location = excluded.location,
			monthly_salary = excluded.monthly_salary,
			bonus_details = excluded.bonus_details,
			equity_details = excluded.equity_details,
			benefits = excluded.benefits,
			contingencies = excluded.contingencies,
			hr_name = excluded.hr_name,
			reporting_manager = excluded.reporting_manager,
			manager_email = excluded.manager_email,
			company_email = excluded.company_email,
			buddy_name = excluded.buddy_name,
			offer_sent = excluded.offer_sent,
			offer_sent_date = excluded.offer_sent_date,
			offer_accepted = excluded.offer_accepted,
			offer_accepted_date = excluded.offer_accepted_date,
			onboarding_completed = excluded.onboarding_completed,
			onboarding_completed_date = excluded.onboarding_completed_date,
			dispatch_to = excluded.dispatch_to,
			dispatch_subject = excluded.dispatch_subject,
			dispatch_body = excluded.dispatch_body,
			state = excluded.state,
			updated_at = excluded.updated_at`,
		o.ID, o.Name, o.Email, nullString(o.Address), o.Position, o.StartDate.String(), nullDate(o.EndDate),
		string(o.EmploymentType), o.ContractMonths, nullString(o.Location), o.MonthlySalary,
		nullString(o.BonusDetails), nullString(o.EquityDetails), nullString(o.Benefits), nullString(o.Contingencies),
		nullString(o.HRName), nullString(o.ReportingManager), nullString(o.ManagerEmail), nullString(o.CompanyEmail),
		nullString(o.BuddyName), boolInt(o.OfferSent), nullDate(o.OfferSentDate), boolInt(o.OfferAccepted),
		nullDate(o.OfferAcceptedDate), boolInt(o.OnboardingCompleted), nullDate(o.OnboardingCompletedDate),
		dispatchTo, dispatchSubject, dispatchBody, string(o.State), created, ts,
	)
	if err != nil {
		return fmt.Errorf("save offer %s: %w", o.ID, err)
	}

	var storedCreated int64
	if err := r.conn.QueryRow(ctx, `SELECT created_at FROM offers WHERE id = ?`, o.ID).Scan(&storedCreated); err != nil {
		return fmt.Errorf("read back offer %s: %w", o.ID, err)
	}
	o.CreatedAt = fromMillis(storedCreated)
	o.UpdatedAt = fromMillis(ts)
	return nil
}

func (r *SQLiteRepo) GetOffer(ctx context.Context, id string) (*models.Offer, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+offerColumns+` FROM offers WHERE id = ?`, id)
	o, err := scanOffer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

// ListOffers returns offers most recently updated first.
func (r *SQLiteRepo) ListOffers(ctx context.Context, limit, offset int) ([]models.Offer, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.conn.QueryRows(ctx, `SELECT `+offerColumns+` FROM offers ORDER BY updated_at DESC, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOffer(s rowScanner) (*models.Offer, error) {
	var (
		o                                                   models.Offer
		start, etype, state                                 string
		end, sentDate, acceptedDate, completedDate          sql.NullString
		address, location, bonus, equity, benefits, conting sql.NullString
		hr, manager, managerEmail, companyEmail, buddy      sql.NullString
		dispatchTo, dispatchSubject, dispatchBody           sql.NullString
		sent, accepted, completed                           int
		created, updated                                    int64
	)
	if err := s.Scan(&o.ID, &o.Name, &o.Email, &address, &o.Position, &start, &end, &etype, &o.ContractMonths,
		&location, &o.MonthlySalary, &bonus, &equity, &benefits, &conting, &hr, &manager,
		&managerEmail, &companyEmail, &buddy, &sent, &sentDate, &accepted, &acceptedDate,
		&completed, &completedDate, &dispatchTo, &dispatchSubject, &dispatchBody, &state,
		&created, &updated); err != nil {
		return nil, err
	}

	var err error
	if o.StartDate, err = models.ParseDate(start); err != nil {
		return nil, fmt.Errorf("offer %s start_date: %w", o.ID, err)
	}
	if o.EndDate, err = scanDate(end); err != nil {
		return nil, fmt.Errorf("offer %s end_date: %w", o.ID, err)
	}
	if o.OfferSentDate, err = scanDate(sentDate); err != nil {
		return nil, fmt.Errorf("offer %s offer_sent_date: %w", o.ID, err)
	}
	if o.OfferAcceptedDate, err = scanDate(acceptedDate); err != nil {
		return nil, fmt.Errorf("offer %s offer_accepted_date: %w", o.ID, err)
	}
	if o.OnboardingCompletedDate, err = scanDate(completedDate); err != nil {
		return nil, fmt.Errorf("offer %s onboarding_completed_date: %w", o.ID, err)
	}

	o.EmploymentType = models.EmploymentType(etype)
	o.State = models.WorkflowState(state)
	o.Address = address.String
	o.Location = location.String
	o.BonusDetails = bonus.String
	o.EquityDetails = equity.String
	o.Benefits = benefits.String
	o.Contingencies = conting.String
	o.HRName = hr.String
	o.ReportingManager = manager.String
	o.ManagerEmail = managerEmail.String
	o.CompanyEmail = companyEmail.String
	o.BuddyName = buddy.String
	o.OfferSent = sent != 0
	o.OfferAccepted = accepted != 0
	o.OnboardingCompleted = completed != 0
	if dispatchTo.Valid {
		o.Dispatch = &models.Dispatch{To: dispatchTo.String, Subject: dispatchSubject.String, Body: dispatchBody.String}
	}
	o.CreatedAt = fromMillis(created)
	o.UpdatedAt = fromMillis(updated)
	return &o, nil
}
