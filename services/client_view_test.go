// services/client_view_test.go
package services

import (
	"testing"

	"crmdesk-backend/models"

	"github.com/google/uuid"
)

func TestBuildClientViewsRealRowsWin(t *testing.T) {
	orgA := uuid.New()
	orgB := uuid.New()

	clients := []models.Client{
		{ID: uuid.New(), OrganisationID: orgA, MRR: 1200, Status: models.ClientStatusActive},
	}
	contacts := []models.Contact{
		// Same organisation as the real client row: must be shadowed
		{ID: uuid.New(), OrganisationID: orgA, Name: "Shadowed", Status: models.ContactStatusClient},
		// No client row for this organisation: inferred view
		{ID: uuid.New(), OrganisationID: orgB, Name: "Inferred", Status: models.ContactStatusClientExpansion},
		// Not client-status: never a view
		{ID: uuid.New(), OrganisationID: uuid.New(), Name: "Prospect", Status: models.ContactStatusQualified},
	}

	views := BuildClientViews(clients, contacts)
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}

	if views[0].Source != ClientViewSourceClient || views[0].Client == nil || views[0].Contact != nil {
		t.Errorf("first view should be the real client row: %+v", views[0])
	}
	if views[1].Source != ClientViewSourceContact || views[1].Contact == nil || views[1].Client != nil {
		t.Errorf("second view should be inferred from the contact: %+v", views[1])
	}
	if views[1].Contact.Name != "Inferred" {
		t.Errorf("wrong contact selected: %q", views[1].Contact.Name)
	}
}

func TestBuildClientViewsOnePerOrganisation(t *testing.T) {
	org := uuid.New()

	contacts := []models.Contact{
		{ID: uuid.New(), OrganisationID: org, Name: "First", Status: models.ContactStatusClient},
		{ID: uuid.New(), OrganisationID: org, Name: "Second", Status: models.ContactStatusClient},
	}

	views := BuildClientViews(nil, contacts)
	if len(views) != 1 {
		t.Fatalf("expected a single view per organisation, got %d", len(views))
	}
	if views[0].Contact.Name != "First" {
		t.Errorf("expected the first client-status contact, got %q", views[0].Contact.Name)
	}
}

func TestClientViewMRR(t *testing.T) {
	clients := []models.Client{
		{ID: uuid.New(), OrganisationID: uuid.New(), MRR: 1200},
		{ID: uuid.New(), OrganisationID: uuid.New(), MRR: 800},
	}
	contacts := []models.Contact{
		{ID: uuid.New(), OrganisationID: uuid.New(), Status: models.ContactStatusClient},
	}

	views := BuildClientViews(clients, contacts)

	// Inferred views carry no billing history
	if views[2].MRR() != 0 {
		t.Errorf("inferred view MRR = %v, want 0", views[2].MRR())
	}
	if total := TotalMRR(views); total != 2000 {
		t.Errorf("TotalMRR = %v, want 2000", total)
	}
}
