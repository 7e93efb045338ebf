package mockapi

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"
)

const otpTTL = 5 * time.Minute

type pendingOTP struct {
	code      string
	userID    int
	firstName string
	lastName  string
	expires   time.Time
}

// otpStore holds one outstanding code per email and one edit grant per user.
type otpStore struct {
	lock    sync.Mutex
	pending map[string]pendingOTP
	granted map[int]time.Time
	nowFunc func() time.Time
}

func newOTPStore(now func() time.Time) *otpStore {
	return &otpStore{
		pending: make(map[string]pendingOTP),
		granted: make(map[int]time.Time),
		nowFunc: now,
	}
}

func (o *otpStore) issue(email string, userID int, firstName, lastName string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("otpStore.issue: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	o.lock.Lock()
	defer o.lock.Unlock()
	o.pending[strings.ToLower(email)] = pendingOTP{
		code:      code,
		userID:    userID,
		firstName: firstName,
		lastName:  lastName,
		expires:   o.nowFunc().Add(otpTTL),
	}
	return code, nil
}

// verify consumes the code for email. A correct code also grants the user
// one profile edit.
func (o *otpStore) verify(email, code string) (pendingOTP, bool) {
	o.lock.Lock()
	defer o.lock.Unlock()

	key := strings.ToLower(email)
	p, ok := o.pending[key]
	if !ok || o.nowFunc().After(p.expires) || p.code != strings.TrimSpace(code) {
		return pendingOTP{}, false
	}
	delete(o.pending, key)
	o.granted[p.userID] = o.nowFunc().Add(otpTTL)
	return p, true
}

// consumeGrant reports whether the user verified an OTP recently, using the grant up.
func (o *otpStore) consumeGrant(userID int) bool {
	o.lock.Lock()
	defer o.lock.Unlock()

	exp, ok := o.granted[userID]
	delete(o.granted, userID)
	return ok && !o.nowFunc().After(exp)
}

// otpValue accepts a code sent as a string, a number or a {"otp": "..."} form object.
type otpValue string

func (v *otpValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = otpValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*v = otpValue(n.String())
		return nil
	}
	var form struct {
		OTP string `json:"otp"`
	}
	if err := json.Unmarshal(data, &form); err != nil {
		return fmt.Errorf("otp must be a string, number or {\"otp\": ...}")
	}
	*v = otpValue(form.OTP)
	return nil
}
