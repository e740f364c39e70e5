package model

import "time"

// Taxonomy is a per-(country,state) accumulator of distinct lowercased
// tribe and village names, maintained opportunistically on submission
// writes to power filter dropdowns without scanning the submission set.
// The tribe/village sets only ever grow; there is no removal path.
//
// Fields:
//  ID       – primary key identifier.
//  Country  – country component of the unique (country,state) pair.
//  State    – state component of the unique (country,state) pair.
//  Tribes   – distinct lowercased tribe names.
//  Villages – distinct lowercased village names.
type Taxonomy struct {
    ID        uint64    `json:"id"`        // taxonomies.id
    Country   string    `json:"country"`   // taxonomies.country
    State     string    `json:"state"`     // taxonomies.state
    Tribes    []string  `json:"tribes"`    // taxonomies.tribes (comma-joined in storage)
    Villages  []string  `json:"villages"`  // taxonomies.villages (comma-joined in storage)
    CreatedAt time.Time `json:"createdAt"` // taxonomies.created_at
    UpdatedAt time.Time `json:"updatedAt"` // taxonomies.updated_at
}
