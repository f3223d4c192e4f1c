package refdata

type CodeNameReq struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type NameReq struct {
	Name string `json:"name" validate:"required"`
}
