package repository

import (
	"gorm.io/gorm"

	"easystock-service/internal/model"
	"easystock-service/internal/policy"
)

var companyColumns = map[string]bool{
	"name":       true,
	"license_id": true,
}

var licenseColumns = map[string]bool{
	"key":        true,
	"package_id": true,
	"expires_at": true,
	"payment_id": true,
}

var packageColumns = map[string]bool{
	"name":        true,
	"amount":      true,
	"pay":         true,
	"validity":    true,
	"color":       true,
	"description": true,
	"offer":       true,
}

// companiesQuery compiles the read scope into the company filter.
func (r *Repository) companiesQuery(sc policy.Scope) *gorm.DB {
	base := r.db.Model(&model.Company{})
	switch sc.Kind {
	case policy.ScopeGlobal:
		return base
	case policy.ScopeCompany:
		return base.Where("companies.id = ?", sc.CompanyID)
	default:
		return base.Where("1 = 0")
	}
}

// licensesQuery compiles the read scope into the license filter. A company
// scope reaches its license through the company's license reference.
func (r *Repository) licensesQuery(sc policy.Scope) *gorm.DB {
	base := r.db.Model(&model.License{})
	switch sc.Kind {
	case policy.ScopeGlobal:
		return base
	case policy.ScopeCompany:
		return base.
			Joins("JOIN companies ON companies.license_id = licenses.id").
			Where("companies.id = ?", sc.CompanyID)
	default:
		return base.Where("1 = 0")
	}
}

// ListCompanies returns every company visible in the scope.
func (r *Repository) ListCompanies(sc policy.Scope) ([]model.Company, error) {
	var companies []model.Company
	if err := r.companiesQuery(sc).Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// GetCompany returns one company by id if the scope can see it.
func (r *Repository) GetCompany(sc policy.Scope, id uint) (*model.Company, error) {
	var company model.Company
	if err := r.companiesQuery(sc).Where("companies.id = ?", id).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// CreateCompany inserts a new company with server-stamped audit fields.
func (r *Repository) CreateCompany(company *model.Company, actorID uint) error {
	company.ID = 0
	stampCreate(&company.Audit, actorID)
	return r.db.Create(company).Error
}

// UpdateCompany applies a partial update to a company.
func (r *Repository) UpdateCompany(id uint, updates map[string]interface{}, actorID uint) (*model.Company, error) {
	var company model.Company
	if err := r.db.First(&company, id).Error; err != nil {
		return nil, err
	}
	if err := r.patch(&company, updates, companyColumns, actorID); err != nil {
		return nil, err
	}
	if err := r.db.First(&company, id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// ListLicenses returns every license visible in the scope.
func (r *Repository) ListLicenses(sc policy.Scope) ([]model.License, error) {
	var licenses []model.License
	if err := r.licensesQuery(sc).Find(&licenses).Error; err != nil {
		return nil, err
	}
	return licenses, nil
}

// GetLicense returns one license by id if the scope can see it.
func (r *Repository) GetLicense(sc policy.Scope, id uint) (*model.License, error) {
	var license model.License
	if err := r.licensesQuery(sc).Where("licenses.id = ?", id).First(&license).Error; err != nil {
		return nil, err
	}
	return &license, nil
}

// CreateLicense inserts a new license with server-stamped audit fields.
func (r *Repository) CreateLicense(license *model.License, actorID uint) error {
	license.ID = 0
	stampCreate(&license.Audit, actorID)
	return r.db.Create(license).Error
}

// UpdateLicense applies a partial update to a license.
func (r *Repository) UpdateLicense(id uint, updates map[string]interface{}, actorID uint) (*model.License, error) {
	var license model.License
	if err := r.db.First(&license, id).Error; err != nil {
		return nil, err
	}
	if err := r.patch(&license, updates, licenseColumns, actorID); err != nil {
		return nil, err
	}
	if err := r.db.First(&license, id).Error; err != nil {
		return nil, err
	}
	return &license, nil
}

// ListPackages returns every package; the lookup is global.
func (r *Repository) ListPackages() ([]model.Package, error) {
	var packages []model.Package
	if err := r.db.Find(&packages).Error; err != nil {
		return nil, err
	}
	return packages, nil
}

// GetPackage returns one package by id.
func (r *Repository) GetPackage(id uint) (*model.Package, error) {
	var pkg model.Package
	if err := r.db.First(&pkg, id).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

// CreatePackage inserts a new package.
func (r *Repository) CreatePackage(pkg *model.Package, actorID uint) error {
	pkg.ID = 0
	stampCreate(&pkg.Audit, actorID)
	return r.db.Create(pkg).Error
}

// UpdatePackage applies a partial update to a package.
func (r *Repository) UpdatePackage(id uint, updates map[string]interface{}, actorID uint) (*model.Package, error) {
	var pkg model.Package
	if err := r.db.First(&pkg, id).Error; err != nil {
		return nil, err
	}
	if err := r.patch(&pkg, updates, packageColumns, actorID); err != nil {
		return nil, err
	}
	if err := r.db.First(&pkg, id).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}
