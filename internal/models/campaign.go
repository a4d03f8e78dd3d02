package models

import "encoding/json"

type ProcessGroupDataRequest struct {
	Data []CampaignRecord `json:"data"`
}

// CampaignRecord is one row of a campaign sheet. Rows sharing an EventKey
// become one group.
type CampaignRecord struct {
	Person      string `json:"person"`
	EventKey    string `json:"eventKey"`
	Description string `json:"description,omitempty"`
	RespRole1   string `json:"respRole1,omitempty"`
	RespRole2   string `json:"respRole2,omitempty"`
	Mensagem1   string `json:"mensagem1,omitempty"`
	Mensagem2   string `json:"mensagem2,omitempty"`
	Mensagem3   string `json:"mensagem3,omitempty"`
	Mensagem4   string `json:"mensagem4,omitempty"`
}

// Messages returns the four message columns in send order, empty ones
// included.
func (r CampaignRecord) Messages() [4]string {
	return [4]string{r.Mensagem1, r.Mensagem2, r.Mensagem3, r.Mensagem4}
}

// UnmarshalJSON also accepts the column names used by the event sheets
// (pessoa, evento, descricao, respoGET, planejador).
func (r *CampaignRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Person      string `json:"person"`
		EventKey    string `json:"eventKey"`
		Description string `json:"description"`
		RespRole1   string `json:"respRole1"`
		RespRole2   string `json:"respRole2"`
		Mensagem1   string `json:"mensagem1"`
		Mensagem2   string `json:"mensagem2"`
		Mensagem3   string `json:"mensagem3"`
		Mensagem4   string `json:"mensagem4"`

		Pessoa     string `json:"pessoa"`
		Evento     string `json:"evento"`
		Descricao  string `json:"descricao"`
		RespoGET   string `json:"respoGET"`
		Planejador string `json:"planejador"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = CampaignRecord{
		Person:      firstNonEmpty(raw.Person, raw.Pessoa),
		EventKey:    firstNonEmpty(raw.EventKey, raw.Evento),
		Description: firstNonEmpty(raw.Description, raw.Descricao),
		RespRole1:   firstNonEmpty(raw.RespRole1, raw.RespoGET),
		RespRole2:   firstNonEmpty(raw.RespRole2, raw.Planejador),
		Mensagem1:   raw.Mensagem1,
		Mensagem2:   raw.Mensagem2,
		Mensagem3:   raw.Mensagem3,
		Mensagem4:   raw.Mensagem4,
	}
	return nil
}

type CampaignResult struct {
	EventKey string      `json:"eventKey"`
	Group    GroupResult `json:"group"`
	Messages Report      `json:"messages"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
