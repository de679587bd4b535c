package extract

import (
	"io"

	"github.com/caresync/crosswalk/pkg/entities"
	"github.com/caresync/crosswalk/pkg/normalize"
)

// Executives extract column names.
const (
	colPersonID   = "GLOBAL_PERSON_ID"
	colFirstName  = "FIRST_NAME"
	colLastName   = "LAST_NAME"
	colTitle      = "TITLE"
	colEmail      = "EMAIL"
	colFirmType   = "FIRM_TYPE"
	colHospitalID = "HOSPITAL_ID"
)

// ContactsSource identifies the executives extract in errors and logs.
const ContactsSource = "executives"

// allowedFirmTypes limits contacts to long-term-care roles. Rows from
// other firm types (hospitals, home health, hospice) are dropped before
// deduplication.
var allowedFirmTypes = map[string]struct{}{
	"Assisted Living Facility":             {},
	"Assisted Living Facility Corporation": {},
	"Skilled Nursing Facility":             {},
	"Skilled Nursing Facility Corporation": {},
}

// Affiliation is one contact-to-facility link from the executives
// extract, in registry-ID space. A contact holding roles at several
// facilities appears once per facility.
type Affiliation struct {
	ContactID  string
	FacilityID string
}

// Contacts holds the deduplicated contact batch plus every surviving
// contact-facility affiliation.
type Contacts struct {
	Table        *entities.Table
	Affiliations []Affiliation
}

// Contacts reads the executives extract. Rows outside the long-term-care
// firm types are dropped; the remainder dedupe by person ID with the
// first row winning, matching the extract's own ordering convention.
// Affiliations keep every row so multi-facility contacts stay linked to
// all their facilities.
func (x *Extractor) Contacts(r io.Reader) (*Contacts, error) {
	t, err := readTable(r, ContactsSource)
	if err != nil {
		return nil, err
	}
	if err := t.require(ContactsSource, colPersonID, colFirmType); err != nil {
		return nil, err
	}

	contactProfile, err := x.profiles.Profile(entities.TypeContact)
	if err != nil {
		return nil, err
	}

	out := &Contacts{
		Table: entities.NewTable(entities.TypeContact, contactProfile.Primary()),
	}

	for _, row := range t.rows {
		if _, ok := allowedFirmTypes[normalize.Text(t.get(row, colFirmType))]; !ok {
			continue
		}
		personID := normalize.NumericID(t.get(row, colPersonID))
		if personID == "" {
			continue
		}

		out.Table.Add(entities.Entity{
			Type: entities.TypeContact,
			Keys: []entities.KeyValue{
				{Name: entities.KeyRegistryID, Value: personID},
				{Name: entities.KeyEmail, Value: t.get(row, colEmail)},
			},
			Attributes: map[string]string{
				"First Name": normalize.Text(t.get(row, colFirstName)),
				"Last Name":  normalize.Text(t.get(row, colLastName)),
				"DHC ID":     personID,
				"Job Title":  normalize.Text(t.get(row, colTitle)),
				"Email":      normalize.Email(t.get(row, colEmail)),
			},
		})

		if facilityID := normalize.NumericID(t.get(row, colHospitalID)); facilityID != "" {
			out.Affiliations = append(out.Affiliations, Affiliation{
				ContactID:  personID,
				FacilityID: facilityID,
			})
		}
	}
	return out, nil
}
