package vocabulary

import "SignCoach/internal/entity"

type SignListResponse struct {
	Data []entity.Sign `json:"data"`
}

type SignResponse struct {
	Data entity.Sign `json:"data"`
}
