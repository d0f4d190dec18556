package object

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Role says in which capacity a signature was recorded.
//
// A commit carries two signatures: the author, who wrote the change, and the
// committer, who recorded it. Annotated tags carry a tagger.
//
//	author Eli Ma <eli@patch.sh> 1678102132 +0800
//	committer Quanyi Ma <eli@patch.sh> 1678102132 +0800
type Role uint8

const (
	RoleAuthor Role = iota + 1
	RoleCommitter
	RoleTagger
)

func (r Role) String() string {
	switch r {
	case RoleAuthor:
		return "author"
	case RoleCommitter:
		return "committer"
	case RoleTagger:
		return "tagger"
	default:
		return fmt.Sprintf("object.Role(%d)", uint8(r))
	}
}

// Bytes returns the header keyword of the role.
func (r Role) Bytes() []byte {
	return []byte(r.String())
}

func (r Role) IsValid() bool {
	return r >= RoleAuthor && r <= RoleTagger
}

// ParseRole matches b exactly against "author", "committer" and "tagger".
func ParseRole(b []byte) (Role, error) {
	switch string(b) {
	case "author":
		return RoleAuthor, nil
	case "committer":
		return RoleCommitter, nil
	case "tagger":
		return RoleTagger, nil
	default:
		return 0, NewInvalidSignatureTypeError(string(b))
	}
}

// Signature is an attribution record embedded in commits and tags. Its
// canonical form is:
//
//	<role> <name> <<email>> <timestamp> <timezone>
//
// The timestamp is in seconds since the Unix epoch and the timezone is the
// offset from UTC as "+HHMM" or "-HHMM". Signatures have no identity of their
// own; they are encoded and decoded as part of their parent object.
type Signature struct {
	Role      Role
	Name      string
	Email     string
	Timestamp uint64
	Timezone  string
}

// NewSignature builds a validated signature from a point in time. The timezone
// is taken from the location of when.
func NewSignature(role Role, name, email string, when time.Time) (Signature, error) {
	unix := when.Unix()
	if unix < 0 {
		return Signature{}, NewMalformedEncodingError("signature", "timestamp before the epoch")
	}

	sig := Signature{
		Role:      role,
		Name:      name,
		Email:     email,
		Timestamp: uint64(unix),
		Timezone:  when.Format("-0700"),
	}
	if err := sig.Validate(); err != nil {
		return Signature{}, err
	}

	return sig, nil
}

// ParseSignature decodes the canonical form. Malformed input yields an error,
// never a panic: a missing space, '<' or '>' is ErrMalformedEncoding, an
// unknown role is ErrInvalidSignatureType.
func ParseSignature(data []byte) (Signature, error) {
	roleEnd := bytes.IndexByte(data, ' ')
	if roleEnd < 0 {
		return Signature{}, NewMalformedEncodingError("signature", "no space after signature type")
	}

	role, err := ParseRole(data[:roleEnd])
	if err != nil {
		return Signature{}, err
	}

	rest := data[roleEnd+1:]
	emailStart := bytes.IndexByte(rest, '<')
	if emailStart < 0 {
		return Signature{}, NewMalformedEncodingError("signature", "no '<' before email")
	}

	emailLen := bytes.IndexByte(rest[emailStart+1:], '>')
	if emailLen < 0 {
		return Signature{}, NewMalformedEncodingError("signature", "no '>' after email")
	}
	emailEnd := emailStart + 1 + emailLen

	name := bytes.TrimSuffix(rest[:emailStart], []byte{' '})
	email := rest[emailStart+1 : emailEnd]

	when := rest[emailEnd+1:]
	if len(when) == 0 || when[0] != ' ' {
		return Signature{}, NewMalformedEncodingError("signature", "no space after '>'")
	}
	when = when[1:]

	tsEnd := bytes.IndexByte(when, ' ')
	if tsEnd < 0 {
		return Signature{}, NewMalformedEncodingError("signature", "no space after timestamp")
	}

	timestamp, err := strconv.ParseUint(string(when[:tsEnd]), 10, 64)
	if err != nil {
		return Signature{}, WrapMalformedEncodingError("signature", "invalid timestamp", err)
	}

	timezone := when[tsEnd+1:]
	if len(timezone) == 0 {
		return Signature{}, NewMalformedEncodingError("signature", "missing timezone")
	}

	return Signature{
		Role:      role,
		Name:      string(name),
		Email:     string(email),
		Timestamp: timestamp,
		Timezone:  string(timezone),
	}, nil
}

// Bytes returns the canonical encoding. It round-trips through
// ParseSignature for every signature that passes Validate.
func (s Signature) Bytes() []byte {
	ts := strconv.FormatUint(s.Timestamp, 10)

	buf := make([]byte, 0, len(s.Role.String())+len(s.Name)+len(s.Email)+len(ts)+len(s.Timezone)+6)
	buf = append(buf, s.Role.String()...)
	buf = append(buf, ' ')
	buf = append(buf, s.Name...)
	buf = append(buf, ' ', '<')
	buf = append(buf, s.Email...)
	buf = append(buf, '>', ' ')
	buf = append(buf, ts...)
	buf = append(buf, ' ')
	buf = append(buf, s.Timezone...)

	return buf
}

func (s Signature) String() string {
	return string(s.Bytes())
}

// Validate checks the invariants that keep the encoding parseable.
func (s Signature) Validate() error {
	if !s.Role.IsValid() {
		return NewInvalidSignatureTypeError(s.Role.String())
	}
	if strings.ContainsAny(s.Name, "\x00<>\n") {
		return NewMalformedEncodingError("signature", "name contains a reserved character")
	}
	if strings.ContainsAny(s.Email, "\x00<>\n") {
		return NewMalformedEncodingError("signature", "email contains a reserved character")
	}
	if s.Timezone == "" || strings.ContainsAny(s.Timezone, " \x00\n") {
		return NewMalformedEncodingError("signature", "invalid timezone")
	}

	return nil
}

// Time returns the time.Time representation of the signature's timestamp and timezone.
func (s Signature) Time() (time.Time, error) {
	if len(s.Timezone) != 5 {
		return time.Time{}, fmt.Errorf("invalid timezone offset format: %s", s.Timezone)
	}

	sign := s.Timezone[0]
	if sign != '+' && sign != '-' {
		return time.Time{}, fmt.Errorf("invalid timezone sign: %c", sign)
	}

	hours, err := strconv.Atoi(s.Timezone[1:3])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid hours: %w", err)
	}

	minutes, err := strconv.Atoi(s.Timezone[3:5])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid minutes: %w", err)
	}

	if s.Timestamp > math.MaxInt64 {
		return time.Time{}, fmt.Errorf("timestamp out of range: %d", s.Timestamp)
	}

	seconds := hours*3600 + minutes*60
	if sign == '-' {
		seconds = -seconds
	}

	loc := time.FixedZone("", seconds)
	return time.Unix(int64(s.Timestamp), 0).In(loc), nil
}
