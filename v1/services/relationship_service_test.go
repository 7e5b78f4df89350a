package services

import (
	"testing"

	"github.com/originate-market/api-server-go/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyToCompany(t *testing.T) {
	t.Run("CreatesPendingApplication", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewRelationshipService(db)
		supplier, _ := seedSupplier(t, db)
		_, company := seedCompany(t, db)

		relationship, err := service.ApplyToCompany(supplier, company.CompanyID)
		require.NoError(t, err)
		assert.Equal(t, models.RelationshipPending, relationship.Status)
		assert.Equal(t, supplier.SupplierID, relationship.SupplierID)
		assert.Nil(t, relationship.ApprovedAt)
	})

	t.Run("RejectsDuplicateWhilePending", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewRelationshipService(db)
		supplier, _ := seedSupplier(t, db)
		_, company := seedCompany(t, db)

		_, err := service.ApplyToCompany(supplier, company.CompanyID)
		require.NoError(t, err)
		_, err = service.ApplyToCompany(supplier, company.CompanyID)
		assert.ErrorIs(t, err, models.ErrDuplicateApplication)
	})

	t.Run("RejectsDuplicateWhileApproved", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewRelationshipService(db)
		supplier, supplierRec := seedSupplier(t, db)
		_, company := seedCompany(t, db)
		seedRelationship(t, db, supplierRec.SupplierID, company.CompanyID, models.RelationshipApproved)

		_, err := service.ApplyToCompany(supplier, company.CompanyID)
		assert.ErrorIs(t, err, models.ErrDuplicateApplication)
	})

	t.Run("AllowsReapplyAfterRejection", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewRelationshipService(db)
		supplier, supplierRec := seedSupplier(t, db)
		_, company := seedCompany(t, db)
		seedRelationship(t, db, supplierRec.SupplierID, company.CompanyID, models.RelationshipRejected)

		relationship, err := service.ApplyToCompany(supplier, company.CompanyID)
		require.NoError(t, err)
		assert.Equal(t, models.RelationshipPending, relationship.Status)
	})

	t.Run("UnknownCompany", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewRelationshipService(db)
		supplier, _ := seedSupplier(t, db)

		_, err := service.ApplyToCompany(supplier, "cmp_missing")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("OnlySuppliersApply", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewRelationshipService(db)
		consumer := seedConsumer(t, db)
		_, company := seedCompany(t, db)

		_, err := service.ApplyToCompany(consumer, company.CompanyID)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})
}

func TestRelationshipDecisions(t *testing.T) {
	t.Run("ApproveStampsApproverAndTime", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewRelationshipService(db)
		supplier, _ := seedSupplier(t, db)
		company, companyRec := seedCompany(t, db)

		relationship, err := service.ApplyToCompany(supplier, companyRec.CompanyID)
		require.NoError(t, err)

		approved, err := service.Approve(company, relationship.RelationshipID)
		require.NoError(t, err)
		assert.Equal(t, models.RelationshipApproved, approved.Status)
		require.NotNil(t, approved.ApprovedAt)
		require.NotNil(t, approved.ApprovedBy)
		assert.Equal(t, company.UserID, *approved.ApprovedBy)
	})

	t.Run("RejectLeavesNoApprovalStamp", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewRelationshipService(db)
		supplier, _ := seedSupplier(t, db)
		company, companyRec := seedCompany(t, db)

		relationship, err := service.ApplyToCompany(supplier, companyRec.CompanyID)
		require.NoError(t, err)

		rejected, err := service.Reject(company, relationship.RelationshipID)
		require.NoError(t, err)
		assert.Equal(t, models.RelationshipRejected, rejected.Status)
		assert.Nil(t, rejected.ApprovedAt)
	})

	t.Run("OnlyPendingApplicationsCanBeDecided", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewRelationshipService(db)
		_, supplierRec := seedSupplier(t, db)
		company, companyRec := seedCompany(t, db)
		relationship := seedRelationship(t, db, supplierRec.SupplierID, companyRec.CompanyID, models.RelationshipApproved)

		_, err := service.Approve(company, relationship.RelationshipID)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
		_, err = service.Reject(company, relationship.RelationshipID)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	})

	t.Run("OnlyTheAddressedCompanyDecides", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewRelationshipService(db)
		supplier, _ := seedSupplier(t, db)
		_, companyRec := seedCompany(t, db)
		otherCompany, _ := seedCompany(t, db)

		relationship, err := service.ApplyToCompany(supplier, companyRec.CompanyID)
		require.NoError(t, err)

		_, err = service.Approve(otherCompany, relationship.RelationshipID)
		assert.ErrorIs(t, err, models.ErrUnauthorized)

		// The applying supplier cannot approve itself
		_, err = service.Approve(supplier, relationship.RelationshipID)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})
}

func TestSuspendRelationship(t *testing.T) {
	t.Run("SuspendsApprovedRelationship", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewRelationshipService(db)
		_, supplierRec := seedSupplier(t, db)
		company, companyRec := seedCompany(t, db)
		relationship := seedRelationship(t, db, supplierRec.SupplierID, companyRec.CompanyID, models.RelationshipApproved)

		suspended, err := service.Suspend(company, relationship.RelationshipID)
		require.NoError(t, err)
		assert.Equal(t, models.RelationshipSuspended, suspended.Status)
	})

	t.Run("OnlyApprovedRelationshipsSuspend", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewRelationshipService(db)
		_, supplierRec := seedSupplier(t, db)
		company, companyRec := seedCompany(t, db)
		relationship := seedRelationship(t, db, supplierRec.SupplierID, companyRec.CompanyID, models.RelationshipPending)

		_, err := service.Suspend(company, relationship.RelationshipID)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	})
}

func TestListRelationships(t *testing.T) {
	t.Run("SupplierAndCompanySeeTheirOwnSide", func(t *testing.T) {
		db := SetupSQLiteTestDB(t)
		service := NewRelationshipService(db)
		supplier, supplierRec := seedSupplier(t, db)
		company, companyRec := seedCompany(t, db)
		otherSupplier, otherSupplierRec := seedSupplier(t, db)

		seedRelationship(t, db, supplierRec.SupplierID, companyRec.CompanyID, models.RelationshipPending)
		seedRelationship(t, db, otherSupplierRec.SupplierID, companyRec.CompanyID, models.RelationshipPending)

		mine, err := service.ListForSupplier(supplier)
		require.NoError(t, err)
		assert.Len(t, mine, 1)

		theirs, err := service.ListForSupplier(otherSupplier)
		require.NoError(t, err)
		assert.Len(t, theirs, 1)

		inbox, err := service.ListForCompany(company)
		require.NoError(t, err)
		assert.Len(t, inbox, 2)
	})
}
