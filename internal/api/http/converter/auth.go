package converter

import "github.com/immxrtalbeast/classroom_live/internal/domain"

type TokenResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	Role         domain.Role `json:"role"`
}

func TokensToApi(t *domain.TokenPair) *TokenResponse {
	return &TokenResponse{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken, Role: t.Role}
}

type PrincipalResponse struct {
	ID                  uint        `json:"id"`
	Name                string      `json:"name"`
	Handle              string      `json:"handle"`
	Role                domain.Role `json:"role"`
	InstitutionalNumber string      `json:"institutionalNumber"`
}

func PrincipalToApi(p *domain.Principal) *PrincipalResponse {
	return &PrincipalResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Handle:              p.Handle,
		Role:                p.Role,
		InstitutionalNumber: p.InstitutionalNumber,
	}
}
