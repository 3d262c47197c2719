package model

// ResidencyType distinguishes an owner-occupier from a tenant.
type ResidencyType string

const (
	// ResidencyOwner marks a resident who owns their unit.
	ResidencyOwner ResidencyType = "owner"
	// ResidencyTenant marks a renting resident; OwnerName/OwnerPhone
	// identify the landlord and participate in payment matching.
	ResidencyTenant ResidencyType = "tenant"
)

// Resident is an occupant (or responsible party) of one unit.
//
// ID is a stable opaque identifier (UUID). DoorNumber is the unit
// number; it is not unique until the integrity service has merged
// duplicates. FullName is the canonical uppercase display form.
type Resident struct {
	ID         string        `json:"id"`
	FullName   string        `json:"fullName"`
	Phone      string        `json:"phone,omitempty"`
	Residency  ResidencyType `json:"type"`
	OwnerName  string        `json:"ownerName,omitempty"`
	OwnerPhone string        `json:"ownerPhone,omitempty"`
	DoorNumber int           `json:"doorNumber"`
}
