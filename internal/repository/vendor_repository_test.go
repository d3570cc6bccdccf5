package repository

import (
	"regexp"
	"testing"
	"time"

	"rfp-ai-go/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newTestVendorRepo(t *testing.T) (VendorRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewVendorRepository(gdb), mock
}

func vendorRows(vendors ...model.Vendor) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name", "email", "company", "created_at"})
	for _, v := range vendors {
		rows.AddRow(v.ID, v.Name, v.Email, v.Company, v.CreatedAt)
	}
	return rows
}

func TestVendorRepository_Create(t *testing.T) {
	repo, mock := newTestVendorRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `vendor`")).
		WithArgs("Acme", "acme@example.com", "Acme Inc", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	vendor := &model.Vendor{Name: "Acme", Email: "acme@example.com", Company: "Acme Inc"}
	require.NoError(t, repo.Create(vendor))
	assert.Equal(t, uint(1), vendor.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepository_FindByEmail(t *testing.T) {
	repo, mock := newTestVendorRepo(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `vendor` WHERE email = ? ORDER BY `vendor`.`id` LIMIT ?")).
		WithArgs("acme@example.com", 1).
		WillReturnRows(vendorRows(model.Vendor{
			ID: 7, Name: "Acme", Email: "acme@example.com", Company: "Acme Inc", CreatedAt: now,
		}))

	vendor, err := repo.FindByEmail("acme@example.com")
	require.NoError(t, err)
	assert.Equal(t, uint(7), vendor.ID)
	assert.Equal(t, "Acme", vendor.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepository_FindByEmail_NotFound(t *testing.T) {
	repo, mock := newTestVendorRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `vendor` WHERE email = ?")).
		WithArgs("nobody@example.com", 1).
		WillReturnRows(vendorRows())

	_, err := repo.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestVendorRepository_FindByIDs_KeepsCallerOrder(t *testing.T) {
	repo, mock := newTestVendorRepo(t)

	// 数据库按主键顺序返回，仓库层按调用方的顺序重排
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `vendor` WHERE id IN (?,?,?)")).
		WithArgs(3, 1, 2).
		WillReturnRows(vendorRows(
			model.Vendor{ID: 1, Name: "Acme", Email: "acme@example.com"},
			model.Vendor{ID: 2, Name: "Globex", Email: "globex@example.com"},
			model.Vendor{ID: 3, Name: "Initech", Email: "initech@example.com"},
		))

	vendors, err := repo.FindByIDs([]uint{3, 1, 2})
	require.NoError(t, err)
	require.Len(t, vendors, 3)
	assert.Equal(t, uint(3), vendors[0].ID)
	assert.Equal(t, uint(1), vendors[1].ID)
	assert.Equal(t, uint(2), vendors[2].ID)
}

func TestVendorRepository_FindByIDs_SkipsMissing(t *testing.T) {
	repo, mock := newTestVendorRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `vendor` WHERE id IN (?,?)")).
		WithArgs(1, 99).
		WillReturnRows(vendorRows(
			model.Vendor{ID: 1, Name: "Acme", Email: "acme@example.com"},
		))

	vendors, err := repo.FindByIDs([]uint{1, 99})
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, uint(1), vendors[0].ID)
}
