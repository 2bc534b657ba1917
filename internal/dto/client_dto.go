package dto

type ClientRequest struct {
	Name          string `json:"name"           validate:"required,max=120"`
	Lastname      string `json:"lastname"       validate:"max=120"`
	WhatsappPhone string `json:"whatsapp_phone" validate:"max=20"`
	Email         string `json:"email"          validate:"omitempty,email"`
	RFC           string `json:"rfc"            validate:"omitempty,min=12,max=13"`
	CompanyName   string `json:"company_name"   validate:"max=200"`
	Phone         string `json:"phone"          validate:"max=20"`
}
