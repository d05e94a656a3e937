package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/hearth/internal/models"
)

// inviteCodeLength is the number of characters in a household invite code.
const inviteCodeLength = 8

// newInviteCode returns the first 8 hex characters of a random UUID, upper-cased.
func newInviteCode() string {
	code := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(code[:inviteCodeLength])
}

// CreateHousehold persists a new household and its owner membership.
func (s *SQLiteStore) CreateHousehold(ctx context.Context, household *models.Household) error {
	if household.ID == "" {
		household.ID = uuid.New().String()
	}
	if household.CreatedAt.IsZero() {
		household.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Retry on the unlikely invite code collision
	for attempt := 0; ; attempt++ {
		if household.InviteCode == "" || attempt > 0 {
			household.InviteCode = newInviteCode()
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO households (id, name, invite_code, owner_id, created_at) VALUES (?, ?, ?, ?, ?)",
			household.ID, household.Name, household.InviteCode, household.OwnerID, toNanos(household.CreatedAt),
		)
		if err == nil {
			break
		}
		if !isUniqueViolation(err) || attempt >= 3 {
			return fmt.Errorf("failed to insert household: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO household_members (household_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
		household.ID, household.OwnerID, string(models.RoleOwner), toNanos(household.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetHousehold retrieves a household by ID.
func (s *SQLiteStore) GetHousehold(ctx context.Context, householdID string) (*models.Household, error) {
	return s.getHousehold(ctx, "id", householdID)
}

// GetHouseholdByInviteCode retrieves a household by its invite code (case-insensitive).
func (s *SQLiteStore) GetHouseholdByInviteCode(ctx context.Context, code string) (*models.Household, error) {
	return s.getHousehold(ctx, "invite_code", strings.ToUpper(strings.TrimSpace(code)))
}

func (s *SQLiteStore) getHousehold(ctx context.Context, column, value string) (*models.Household, error) {
	h := &models.Household{}
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, invite_code, owner_id, created_at FROM households WHERE "+column+" = ?",
		value,
	).Scan(&h.ID, &h.Name, &h.InviteCode, &h.OwnerID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound.Wrapf("household not found: %s", value)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get household: %w", err)
	}
	h.CreatedAt = fromNanos(createdAt)
	return h, nil
}

// AddMember adds a user to a household. Existing members are left untouched.
func (s *SQLiteStore) AddMember(ctx context.Context, m *models.Membership) error {
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	if m.Role == "" {
		m.Role = models.RoleMember
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO household_members (household_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (household_id, user_id) DO NOTHING`,
		m.HouseholdID, m.UserID, string(m.Role), toNanos(m.JoinedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to add household member: %w", err)
	}
	return nil
}

// ListMembers returns the household roster ordered by user ID.
func (s *SQLiteStore) ListMembers(ctx context.Context, householdID string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.display_name
		 FROM household_members m JOIN users u ON u.id = m.user_id
		 WHERE m.household_id = ? ORDER BY u.id`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// IsMember reports whether the user belongs to the household.
func (s *SQLiteStore) IsMember(ctx context.Context, householdID, userID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM household_members WHERE household_id = ? AND user_id = ?",
		householdID, userID,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return true, nil
}

// ListHouseholdsForUser returns the user's households, oldest membership first.
func (s *SQLiteStore) ListHouseholdsForUser(ctx context.Context, userID string) ([]*models.Household, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT h.id, h.name, h.invite_code, h.owner_id, h.created_at
		 FROM household_members m JOIN households h ON h.id = m.household_id
		 WHERE m.user_id = ? ORDER BY m.joined_at, h.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}
	defer rows.Close()

	var households []*models.Household
	for rows.Next() {
		h := &models.Household{}
		var createdAt int64
		if err := rows.Scan(&h.ID, &h.Name, &h.InviteCode, &h.OwnerID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan household: %w", err)
		}
		h.CreatedAt = fromNanos(createdAt)
		households = append(households, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate households: %w", err)
	}
	return households, nil
}
