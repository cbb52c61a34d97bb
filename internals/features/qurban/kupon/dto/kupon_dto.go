package dto

type SeedKuponRequest struct {
	Jumlah int `json:"jumlah" validate:"required,gt=0,lte=5000"`
}
