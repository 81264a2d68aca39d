package database

import (
	"context"
	"fmt"

	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/clients/postgres"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS providers (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		specialty TEXT NOT NULL DEFAULT '',
		location_address TEXT NOT NULL DEFAULT '',
		location_city TEXT NOT NULL DEFAULT '',
		location_state TEXT NOT NULL DEFAULT '',
		location_zip_code TEXT NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT '',
		credentials TEXT NOT NULL DEFAULT '',
		services TEXT NOT NULL DEFAULT '',
		insurance TEXT NOT NULL DEFAULT '',
		rating DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (rating >= 0 AND rating <= 5),
		availability_next_available TEXT,
		availability_wait_time TEXT NOT NULL DEFAULT '',
		photo TEXT NOT NULL DEFAULT '',
		contact_phone TEXT NOT NULL DEFAULT '',
		contact_email TEXT NOT NULL DEFAULT '',
		contact_website TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS patient_applications (
		id UUID PRIMARY KEY,
		status TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		date_of_birth TEXT,
		address TEXT,
		city TEXT,
		state TEXT,
		zip_code TEXT,
		primary_condition TEXT NOT NULL,
		symptoms TEXT NOT NULL,
		current_treatments TEXT,
		previous_treatments TEXT,
		medications TEXT,
		preferred_providers TEXT,
		household_income TEXT NOT NULL,
		household_size TEXT NOT NULL,
		employment_status TEXT,
		insurance_status TEXT,
		treatment_goals TEXT NOT NULL,
		additional_info TEXT,
		agree_to_terms BOOLEAN NOT NULL,
		submitted_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS practitioner_applications (
		id UUID PRIMARY KEY,
		status TEXT NOT NULL,
		practice_name TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		website TEXT,
		address TEXT,
		city TEXT,
		state TEXT,
		zip_code TEXT,
		license_number TEXT NOT NULL,
		license_state TEXT NOT NULL,
		years_experience TEXT NOT NULL,
		specialties TEXT[] NOT NULL,
		credentials TEXT,
		education TEXT,
		services_offered TEXT NOT NULL,
		insurance_accepted TEXT[] NOT NULL,
		payment_options TEXT,
		average_session_cost TEXT NOT NULL,
		"references" TEXT NOT NULL,
		malpractice_insurance TEXT,
		background_check BOOLEAN NOT NULL,
		agree_to_terms BOOLEAN NOT NULL,
		submitted_at TIMESTAMPTZ NOT NULL
	)`,
}

// EnsureSchema creates the directory tables when they do not exist
func EnsureSchema(ctx context.Context, client *postgres.Client) error {
	for _, stmt := range schemaStatements {
		if _, err := client.DB().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
