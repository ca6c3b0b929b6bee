package repository

import (
	"database/sql"

	"github.com/studiohaven/cms-api/internal/models"
)

// CompanyRepository manages the single company-information row. The
// table pins id = TRUE behind a check constraint, so there is exactly
// zero or one row and writes are upserts.
type CompanyRepository interface {
	Get() (models.CompanyInfo, error)
	Upsert(info models.CompanyInfo) (models.CompanyInfo, error)
}

type companyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Get() (models.CompanyInfo, error) {
	const query = `
		SELECT address, phone, fax, email, introduction, logo_image_url, instagram_link, youtube_link, updated_at
		FROM company_info
		WHERE id = TRUE`

	var info models.CompanyInfo
	err := r.db.QueryRow(query).Scan(
		&info.Address,
		&info.Phone,
		&info.Fax,
		&info.Email,
		&info.Introduction,
		&info.LogoImageURL,
		&info.InstagramLink,
		&info.YoutubeLink,
		&info.UpdatedAt,
	)
	if err != nil {
		return models.CompanyInfo{}, err
	}
	return info, nil
}

func (r *companyRepository) Upsert(info models.CompanyInfo) (models.CompanyInfo, error) {
	const query = `
		INSERT INTO company_info (id, address, phone, fax, email, introduction, logo_image_url, instagram_link, youtube_link, updated_at)
		VALUES (TRUE, $1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (id) DO UPDATE
		SET address = EXCLUDED.address,
		    phone = EXCLUDED.phone,
		    fax = EXCLUDED.fax,
		    email = EXCLUDED.email,
		    introduction = EXCLUDED.introduction,
		    logo_image_url = EXCLUDED.logo_image_url,
		    instagram_link = EXCLUDED.instagram_link,
		    youtube_link = EXCLUDED.youtube_link,
		    updated_at = now()
		RETURNING updated_at`

	err := r.db.QueryRow(query,
		info.Address,
		info.Phone,
		info.Fax,
		info.Email,
		info.Introduction,
		info.LogoImageURL,
		info.InstagramLink,
		info.YoutubeLink,
	).Scan(&info.UpdatedAt)
	if err != nil {
		return models.CompanyInfo{}, err
	}
	return info, nil
}
