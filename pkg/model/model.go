// Package model holds the wire types that external clients of the portfolio
// service work with.
package model

import (
	"encoding/json"
	"strconv"
)

// DefaultAvatar is the placeholder image used when a testimonial has no
// avatar of its own.
const DefaultAvatar = "/images/profile.png"

// Testimonial is an endorsement as displayed on the page and mirrored into
// the local cache. The id is either the server-assigned one or a
// client-generated fallback. The email of the author is deliberately absent.
type Testimonial struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Content string `json:"content"`
	Avatar  string `json:"avatar"`
	Date    string `json:"date"`
}

// FlexId accepts a JSON string or a JSON number, because the testimonial
// endpoint may answer with either.
type FlexId string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexId) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*f = FlexId(asString)
		return nil
	}
	var asNumber int64
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return err
	}
	*f = FlexId(strconv.FormatInt(asNumber, 10))
	return nil
}

// SubmissionAck is the success envelope of the testimonial endpoint.
// CreatedAt may be empty when the server did not persist the record.
type SubmissionAck struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TestimonialId FlexId `json:"testimonialId"`
	CreatedAt     string `json:"createdAt"`
}
