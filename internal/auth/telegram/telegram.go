package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Paul1o1/rendojobs-frontend/internal/clock"
)

// Validation failures are distinguished so callers can log which check
// tripped. The HTTP boundary collapses them all to one opaque response.
var (
	ErrInvalidPayload    = errors.New("telegram: malformed init data")
	ErrMissingHash       = errors.New("telegram: missing hash field")
	ErrSignatureMismatch = errors.New("telegram: signature mismatch")
	ErrStalePayload      = errors.New("telegram: auth_date too old")
	ErrMissingUser       = errors.New("telegram: missing user field")
	ErrMalformedUser     = errors.New("telegram: malformed user field")
)

// secretKeyMaterial is mandated by the Telegram Web App protocol and
// cannot be changed.
const secretKeyMaterial = "WebAppData"

// UserData is the user object Telegram embeds, JSON-encoded, in the
// signed payload's user field. It contains facts only, no decisions.
type UserData struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	IsPremium    bool   `json:"is_premium,omitempty"`
}

// Validator authenticates raw initData strings against the bot token.
// Safe for concurrent use; it holds no mutable state.
type Validator struct {
	botToken string
	maxAge   time.Duration
	clock    clock.Clock
}

// NewValidator builds a Validator. maxAge bounds how old the payload's
// auth_date may be; zero disables the freshness check (the upstream
// protocol itself carries no expiry).
func NewValidator(botToken string, maxAge time.Duration, clk clock.Clock) *Validator {
	return &Validator{
		botToken: botToken,
		maxAge:   maxAge,
		clock:    clk,
	}
}

// Validate checks the payload's HMAC signature and returns the embedded
// user. It never panics on malformed input.
//
// The check string is every field except hash, sorted bytewise by key,
// rendered as key=value and joined with single newlines. The signing
// key is HMAC-SHA256("WebAppData", botToken); the signature is
// HMAC-SHA256(key, checkString) hex-encoded.
func (v *Validator) Validate(initData string) (*UserData, error) {
	fields, err := url.ParseQuery(initData)
	if err != nil {
		return nil, ErrInvalidPayload
	}

	providedHash := fields.Get("hash")
	if providedHash == "" {
		return nil, ErrMissingHash
	}
	fields.Del("hash")

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields.Get(k))
	}
	checkString := strings.Join(pairs, "\n")

	secretKey := hmacSHA256([]byte(secretKeyMaterial), []byte(v.botToken))
	calculated := hex.EncodeToString(hmacSHA256(secretKey, []byte(checkString)))

	// Constant-time compare; a length mismatch fails immediately
	// without revealing anything about the expected value.
	if !hmac.Equal([]byte(calculated), []byte(providedHash)) {
		return nil, ErrSignatureMismatch
	}

	// Freshness is checked only after the signature: an unsigned
	// auth_date proves nothing either way.
	if v.maxAge > 0 {
		if err := v.checkFreshness(fields.Get("auth_date")); err != nil {
			return nil, err
		}
	}

	userJSON := fields.Get("user")
	if userJSON == "" {
		return nil, ErrMissingUser
	}

	var user UserData
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, ErrMalformedUser
	}

	return &user, nil
}

func (v *Validator) checkFreshness(authDate string) error {
	unix, err := strconv.ParseInt(authDate, 10, 64)
	if err != nil {
		return ErrStalePayload
	}
	issued := time.Unix(unix, 0)
	if v.clock.Now().Sub(issued) > v.maxAge {
		return ErrStalePayload
	}
	return nil
}

func hmacSHA256(key, message []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return mac.Sum(nil)
}

// Sign produces a valid hash for the given fields, for constructing
// test payloads. fields must not contain a hash key.
func Sign(fields url.Values, botToken string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields.Get(k))
	}

	secretKey := hmacSHA256([]byte(secretKeyMaterial), []byte(botToken))
	return hex.EncodeToString(hmacSHA256(secretKey, []byte(strings.Join(pairs, "\n"))))
}
