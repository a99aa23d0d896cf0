package hash

import (
	"golang.org/x/crypto/bcrypt"
)

// dummyPassword feeds CheckDummy; it never matches a real login.
const dummyPassword = "netra-dummy-password"

type Hasher struct {
	Cost int

	dummy []byte
}

// New precomputes the dummy hash so the first unknown-user login costs the
// same as every other one.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), cost)
	if err != nil {
		panic("hash: dummy hash: " + err.Error())
	}
	return &Hasher{Cost: cost, dummy: dummy}
}

func (h *Hasher) HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashbytes), nil
}

func (h *Hasher) CheckPassword(hash, password string) bool {
	return CheckPassword(hash, password)
}

// CheckDummy burns one comparison at the hasher's cost so that a login for
// an unknown username takes as long as a wrong password.
func (h *Hasher) CheckDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}

// CheckPassword reports whether password matches hash. A malformed hash is a
// mismatch.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
