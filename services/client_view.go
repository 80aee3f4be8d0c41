// services/client_view.go
package services

import (
	"crmdesk-backend/models"

	"github.com/google/uuid"
)

const (
	ClientViewSourceClient  = "client"
	ClientViewSourceContact = "contact"
)

// ClientView is the effective client row for an organisation. It is a
// discriminated union: either a real Client record, or one inferred from a
// contact whose status is client/client-expansion when the organisation has
// no Client row yet. Exactly one of Client/Contact is set, per Source.
type ClientView struct {
	Source         string          `json:"source"` // client, contact
	OrganisationID uuid.UUID       `json:"organisationId"`
	Client         *models.Client  `json:"client,omitempty"`
	Contact        *models.Contact `json:"contact,omitempty"`
}

// MRR returns the view's monthly recurring revenue. Inferred views have no
// billing history and always report 0.
func (v ClientView) MRR() float64 {
	if v.Source == ClientViewSourceClient && v.Client != nil {
		return v.Client.MRR
	}
	return 0
}

// BuildClientViews merges real client rows with client-status contacts into
// at most one effective view per organisation. Real rows always win; among
// contacts, the first client-status contact for an organisation is used.
// Order follows the input client slice, then remaining inferred views in
// contact order.
func BuildClientViews(clients []models.Client, contacts []models.Contact) []ClientView {
	views := make([]ClientView, 0, len(clients))
	seen := make(map[uuid.UUID]bool, len(clients))

	for i := range clients {
		client := &clients[i]
		if seen[client.OrganisationID] {
			continue
		}
		seen[client.OrganisationID] = true
		views = append(views, ClientView{
			Source:         ClientViewSourceClient,
			OrganisationID: client.OrganisationID,
			Client:         client,
		})
	}

	for i := range contacts {
		contact := &contacts[i]
		if contact.Status != models.ContactStatusClient && contact.Status != models.ContactStatusClientExpansion {
			continue
		}
		if seen[contact.OrganisationID] {
			continue
		}
		seen[contact.OrganisationID] = true
		views = append(views, ClientView{
			Source:         ClientViewSourceContact,
			OrganisationID: contact.OrganisationID,
			Contact:        contact,
		})
	}

	return views
}

// TotalMRR sums MRR across effective client views.
func TotalMRR(views []ClientView) float64 {
	var total float64
	for _, v := range views {
		total += v.MRR()
	}
	return total
}
