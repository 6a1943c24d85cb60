package leaverequest_test

import (
	"context"
	"testing"
	"time"

	"spice-hr/internal/leaverequest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepoTest(t *testing.T) leaverequest.Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&leaverequest.LeaveRequest{}))

	return leaverequest.NewRepository(db)
}

func seedRequest(t *testing.T, repo leaverequest.Repository, mutate func(l *leaverequest.LeaveRequest)) *leaverequest.LeaveRequest {
	t.Helper()

	l := &leaverequest.LeaveRequest{
		ID:            uuid.New(),
		RequestNumber: "LR-" + uuid.NewString()[:6],
		EmployeeID:    "EMP001",
		EmployeeName:  "John Doe",
		EmployeeType:  "Delivery Manager",
		Category:      "delivery_manager",
		LeaveType:     "Annual",
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Duration:      5,
		Status:        leaverequest.StatusPending,
	}
	if mutate != nil {
		mutate(l)
	}
	assert.NoError(t, repo.Create(context.Background(), l))
	return l
}

func TestRepository_CreateAndFindByID(t *testing.T) {
	ctx := context.Background()
	repo := setupRepoTest(t)

	seeded := seedRequest(t, repo, func(l *leaverequest.LeaveRequest) {
		l.CertName = "note.pdf"
		l.CertMIME = "application/pdf"
		l.CertSize = 24
		l.CertData = []byte("%PDF-1.4 test")
	})

	got, err := repo.FindByID(ctx, seeded.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, seeded.RequestNumber, got.RequestNumber)
	assert.Equal(t, "EMP001", got.EmployeeID)
	assert.Equal(t, 5, got.Duration)
	assert.True(t, got.HasCertification())
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	repo := setupRepoTest(t)

	_, err := repo.FindByID(context.Background(), uuid.NewString())

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_FindAll_Filters(t *testing.T) {
	ctx := context.Background()
	repo := setupRepoTest(t)

	seedRequest(t, repo, nil)
	seedRequest(t, repo, func(l *leaverequest.LeaveRequest) {
		l.ID = uuid.New()
		l.EmployeeID = "EMP002"
		l.EmployeeName = "Jane Smith"
		l.Category = "product_manager"
		l.StartDate = time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
		l.EndDate = time.Date(2024, 2, 6, 0, 0, 0, 0, time.UTC)
		l.Status = leaverequest.StatusApproved
	})

	t.Run("no filter returns everything", func(t *testing.T) {
		all, err := repo.FindAll(ctx, leaverequest.ListFilter{})
		assert.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("category filter", func(t *testing.T) {
		got, err := repo.FindAll(ctx, leaverequest.ListFilter{Category: "product_manager"})
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, "EMP002", got[0].EmployeeID)
	})

	t.Run("employee name filter ignores case", func(t *testing.T) {
		got, err := repo.FindAll(ctx, leaverequest.ListFilter{EmployeeName: "jane smith"})
		assert.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("status filter", func(t *testing.T) {
		got, err := repo.FindAll(ctx, leaverequest.ListFilter{Status: leaverequest.StatusPending})
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, "EMP001", got[0].EmployeeID)
	})
}

func TestRepository_Delete_SoftDeletes(t *testing.T) {
	ctx := context.Background()
	repo := setupRepoTest(t)
	seeded := seedRequest(t, repo, nil)

	assert.NoError(t, repo.Delete(ctx, seeded.ID.String()))

	_, err := repo.FindByID(ctx, seeded.ID.String())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	all, err := repo.FindAll(ctx, leaverequest.ListFilter{})
	assert.NoError(t, err)
	assert.Empty(t, all)
}

func TestRepository_HasOverlappingPeriod(t *testing.T) {
	ctx := context.Background()
	repo := setupRepoTest(t)

	seeded := seedRequest(t, repo, nil) // 2024-01-01 .. 2024-01-05, pending

	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	t.Run("touching range overlaps", func(t *testing.T) {
		overlap, err := repo.HasOverlappingPeriod(ctx, "EMP001", day(5), day(9), nil)
		assert.NoError(t, err)
		assert.True(t, overlap)
	})

	t.Run("contained range overlaps", func(t *testing.T) {
		overlap, err := repo.HasOverlappingPeriod(ctx, "EMP001", day(2), day(3), nil)
		assert.NoError(t, err)
		assert.True(t, overlap)
	})

	t.Run("disjoint range does not overlap", func(t *testing.T) {
		overlap, err := repo.HasOverlappingPeriod(ctx, "EMP001", day(8), day(10), nil)
		assert.NoError(t, err)
		assert.False(t, overlap)
	})

	t.Run("other employee does not overlap", func(t *testing.T) {
		overlap, err := repo.HasOverlappingPeriod(ctx, "EMP002", day(1), day(5), nil)
		assert.NoError(t, err)
		assert.False(t, overlap)
	})

	t.Run("own record excluded on edit", func(t *testing.T) {
		id := seeded.ID.String()
		overlap, err := repo.HasOverlappingPeriod(ctx, "EMP001", day(1), day(5), &id)
		assert.NoError(t, err)
		assert.False(t, overlap)
	})

	t.Run("rejected requests do not block resubmission", func(t *testing.T) {
		rec := seeded
		rec.Status = leaverequest.StatusRejected
		assert.NoError(t, repo.Update(ctx, rec))

		overlap, err := repo.HasOverlappingPeriod(ctx, "EMP001", day(1), day(5), nil)
		assert.NoError(t, err)
		assert.False(t, overlap)
	})
}

func TestRepository_CountByCategoryAndStatus(t *testing.T) {
	ctx := context.Background()
	repo := setupRepoTest(t)

	variants := []struct {
		employeeID string
		category   string
		status     string
		start      time.Time
	}{
		{"EMP001", "delivery_manager", leaverequest.StatusPending, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"EMP002", "delivery_manager", leaverequest.StatusApproved, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
		{"EMP003", "delivery_manager", leaverequest.StatusApproved, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"EMP004", "other", leaverequest.StatusRejected, time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC)},
	}
	for _, v := range variants {
		v := v
		seedRequest(t, repo, func(l *leaverequest.LeaveRequest) {
			l.ID = uuid.New()
			l.EmployeeID = v.employeeID
			l.Category = v.category
			l.Status = v.status
			l.StartDate = v.start
			l.EndDate = v.start.AddDate(0, 0, 2)
		})
	}

	counts, err := repo.CountByCategoryAndStatus(ctx)

	assert.NoError(t, err)
	byCategory := make(map[string]leaverequest.CategoryCount, len(counts))
	for _, c := range counts {
		byCategory[c.Category] = c
	}
	assert.Equal(t, int64(1), byCategory["delivery_manager"].Pending)
	assert.Equal(t, int64(2), byCategory["delivery_manager"].Approved)
	assert.Equal(t, int64(1), byCategory["other"].Rejected)
}
