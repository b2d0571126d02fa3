package config

import (
	"strconv"

	"github.com/jrsteele09/kitshop-gateway/internal/errors"
)

const (
	companyIDEnvVar      = "COMPANY_ID"
	vendorLoginEnvVar    = "USER_LOGIN"
	vendorPasswordEnvVar = "PASSWORD"
	vendorBaseURLEnvVar  = "KITSHOP_BASE_URL"

	DefaultVendorBaseURL = "https://api.kitshop.ru/APIService.svc"
)

type VendorConfig interface {
	GetVendorBaseURL() string
	GetVendorCredentials() (VendorCredentials, error)
}

// VendorCredentials is the company id / login / password triple issued by KitShop
type VendorCredentials struct {
	CompanyID int64
	UserLogin string
	Password  string
}

type Vendor struct{}

var _ VendorConfig = Vendor{}

func (Vendor) GetVendorBaseURL() string {
	return GetEnv(vendorBaseURLEnvVar, DefaultVendorBaseURL)
}

func (Vendor) GetVendorCredentials() (VendorCredentials, error) {
	var errs []error

	companyID, err := strconv.ParseInt(GetEnv(companyIDEnvVar, ""), 10, 64)
	if err != nil {
		errs = append(errs, errors.Wrapf(errors.ErrConfiguration, "%s must be an integer", companyIDEnvVar))
	}

	login := GetEnv(vendorLoginEnvVar, "")
	if login == "" {
		errs = append(errs, errors.Wrapf(errors.ErrConfiguration, "%s is not set", vendorLoginEnvVar))
	}

	password := GetEnv(vendorPasswordEnvVar, "")
	if password == "" {
		errs = append(errs, errors.Wrapf(errors.ErrConfiguration, "%s is not set", vendorPasswordEnvVar))
	}

	if len(errs) > 0 {
		return VendorCredentials{}, errors.Join(errs...)
	}

	return VendorCredentials{
		CompanyID: companyID,
		UserLogin: login,
		Password:  password,
	}, nil
}
