package usecase

import (
	"fullscope-site-backend/internal/domain"
)

// SiteInfo is the public business profile
type SiteInfo struct {
	Name     string
	URL      string
	Email    string
	Services []string
}

type siteUsecase struct {
	info SiteInfo
}

func NewSiteUsecase(info SiteInfo) domain.SiteUsecase {
	return &siteUsecase{info: info}
}

// StructuredData builds a schema.org ProfessionalService document
func (uc *siteUsecase) StructuredData() map[string]interface{} {
	doc := map[string]interface{}{
		"@context":   "https://schema.org",
		"@type":      "ProfessionalService",
		"name":       uc.info.Name,
		"url":        uc.info.URL,
		"priceRange": "$$",
	}
	if uc.info.URL != "" {
		doc["logo"] = uc.info.URL + "/Logonobckgrndblack.svg"
		doc["image"] = uc.info.URL + "/Logonobckgrndblack.svg"
	}
	if uc.info.Email != "" {
		doc["email"] = uc.info.Email
	}
	if len(uc.info.Services) == 0 {
		return doc
	}

	doc["serviceType"] = uc.info.Services
	offers := make([]map[string]interface{}, 0, len(uc.info.Services))
	for _, s := range uc.info.Services {
		offers = append(offers, map[string]interface{}{
			"@type": "Offer",
			"itemOffered": map[string]interface{}{
				"@type": "Service",
				"name":  s,
			},
		})
	}
	doc["hasOfferCatalog"] = map[string]interface{}{
		"@type":           "OfferCatalog",
		"name":            uc.info.Name + " Services",
		"itemListElement": offers,
	}
	return doc
}
