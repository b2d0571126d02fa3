package kitshop

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// RequestIDLayout formats the request id as ddMMyyyyHHmmss. Second resolution is the
// vendor's contract: two calls in the same second carry the same id and signature.
const RequestIDLayout = "02012006150405"

// Credential is the company id / login / password triple KitShop issues to an
// integration. It is immutable and safe to share between goroutines.
type Credential struct {
	CompanyID int64
	UserLogin string
	password  string
}

// Auth is the authentication block sent in the body of every vendor request
type Auth struct {
	CompanyID int64  `json:"CompanyId"`
	RequestID string `json:"RequestId"`
	UserLogin string `json:"UserLogin"`
	Sign      string `json:"Sign"`
}

func NewCredential(companyID int64, userLogin, password string) Credential {
	return Credential{
		CompanyID: companyID,
		UserLogin: userLogin,
		password:  password,
	}
}

// Sign returns lowercase hex MD5(companyID + password + requestID). MD5 is mandated by
// the vendor protocol.
func (c Credential) Sign(requestID string) string {
	sum := md5.Sum([]byte(strconv.FormatInt(c.CompanyID, 10) + c.password + requestID))
	return hex.EncodeToString(sum[:])
}

// AuthHeaders builds a freshly signed Auth block for a request made at now
func (c Credential) AuthHeaders(now time.Time) Auth {
	requestID := now.UTC().Format(RequestIDLayout)
	return Auth{
		CompanyID: c.CompanyID,
		RequestID: requestID,
		UserLogin: c.UserLogin,
		Sign:      c.Sign(requestID),
	}
}

func (c Credential) String() string {
	return fmt.Sprintf("Credential{CompanyID: %d, UserLogin: %q}", c.CompanyID, c.UserLogin)
}
