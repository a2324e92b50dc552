package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/politicosbr/camara-client/pkg/model"
	"github.com/shopspring/decimal"
)

// Orgao is a committee or organ membership record.
type Orgao struct {
	IDOrgao        ID   `json:"idOrgao"`
	SiglaOrgao     Text `json:"siglaOrgao"`
	NomeOrgao      Text `json:"nomeOrgao"`
	NomePublicacao Text `json:"nomePublicacao"`
	Titulo         Text `json:"titulo"`
	CodTitulo      Text `json:"codTitulo"`
	DataInicio     Text `json:"dataInicio"`
	DataFim        Text `json:"dataFim"`
}

// Committee maps the record to a model.Committee.
func (o Orgao) Committee() model.Committee {
	c := model.Committee{
		Name:      firstText(o.NomePublicacao, o.NomeOrgao),
		Acronym:   string(o.SiglaOrgao),
		Type:      string(o.CodTitulo),
		Title:     NormalizeTitle(string(o.Titulo)),
		StartDate: FormatDate(string(o.DataInicio)),
	}
	if o.DataFim != "" {
		end := FormatDate(string(o.DataFim))
		c.EndDate = &end
	}
	return c
}

// Historico is a career history record.
type Historico struct {
	ID              ID   `json:"id"`
	Nome            Text `json:"nome"`
	SiglaPartido    Text `json:"siglaPartido"`
	SiglaUf         Text `json:"siglaUf"`
	IDLegislatura   Int  `json:"idLegislatura"`
	DataHora        Text `json:"dataHora"`
	Situacao        Text `json:"situacao"`
	DescricaoStatus Text `json:"descricaoStatus"`
}

// ErrMissingDate is returned for history records without a dataHora.
var ErrMissingDate = errors.New("record has no date")

// CareerEvent maps the record to a model.CareerEvent.
// An absent dataHora is ErrMissingDate; one that yields no year is *DateError.
func (h Historico) CareerEvent() (model.CareerEvent, error) {
	if h.DataHora == "" {
		return model.CareerEvent{}, ErrMissingDate
	}
	year, err := ParseYear("dataHora", string(h.DataHora))
	if err != nil {
		return model.CareerEvent{}, err
	}

	var role []string
	if h.IDLegislatura > 0 {
		role = append(role, fmt.Sprintf("%dª Legislatura", h.IDLegislatura))
	}
	if h.SiglaPartido != "" {
		role = append(role, "("+strings.ToUpper(string(h.SiglaPartido))+")")
	}
	if h.SiglaUf != "" {
		role = append(role, "- "+strings.ToUpper(string(h.SiglaUf)))
	}

	status := firstText(h.DescricaoStatus)
	if status == "" {
		status = "Não informado"
	}

	description := status
	if date := formatDatePart(string(h.DataHora)); date != "" {
		description = date + " - " + status
	}

	return model.CareerEvent{
		Year:        year,
		Role:        strings.Join(role, " "),
		Description: description,
	}, nil
}

// StatusProposicao is the current procedural status of a proposal.
type StatusProposicao struct {
	Sigla             Text `json:"sigla"`
	Descricao         Text `json:"descricao"`
	DescricaoSituacao Text `json:"descricaoSituacao"`
}

// Proposicao is a proposal record from the list or detail endpoint.
type Proposicao struct {
	ID               ID                `json:"id"`
	SiglaTipo        Text              `json:"siglaTipo"`
	Numero           Int               `json:"numero"`
	Ano              Int               `json:"ano"`
	Ementa           Text              `json:"ementa"`
	DataApresentacao Text              `json:"dataApresentacao"`
	StatusProposicao *StatusProposicao `json:"statusProposicao"`
}

// Proposal maps the record to a model.Proposal.
func (p Proposicao) Proposal() (model.Proposal, error) {
	if p.ID == "" {
		return model.Proposal{}, ErrMissingID
	}

	var status string
	if s := p.StatusProposicao; s != nil {
		status = firstText(s.Sigla, s.Descricao, s.DescricaoSituacao)
	}

	return model.Proposal{
		ID:             string(p.ID),
		Type:           strings.ToUpper(string(p.SiglaTipo)),
		Number:         int(p.Numero),
		Year:           int(p.Ano),
		Summary:        string(p.Ementa),
		Status:         ProposalStatus(status),
		SubmissionDate: FormatDate(string(p.DataApresentacao)),
	}, nil
}

// Fornecedor is the supplier block some expense payloads nest.
type Fornecedor struct {
	NomeFornecedor Text `json:"nomeFornecedor"`
}

// Despesa is an expense record.
type Despesa struct {
	Ano            Int                 `json:"ano"`
	Mes            Int                 `json:"mes"`
	TipoDespesa    Text                `json:"tipoDespesa"`
	ValorDocumento Amount              `json:"valorDocumento"`
	NomeFornecedor Text                `json:"nomeFornecedor"`
	Fornec         *Fornecedor         `json:"fornec"`
}

// Expense maps the record to a model.Expense.
// Missing amounts are 0 and negative amounts (reversals) are clamped to 0.
func (d Despesa) Expense() model.Expense {
	amount := decimal.Zero
	if v, ok := d.ValorDocumento.Value(); ok && v.IsPositive() {
		amount = v
	}

	var supplier Text
	if d.Fornec != nil {
		supplier = d.Fornec.NomeFornecedor
	}

	return model.Expense{
		Month:    int(d.Mes),
		Year:     int(d.Ano),
		Category: string(d.TipoDespesa),
		Amount:   amount,
		Supplier: firstText(supplier, d.NomeFornecedor),
	}
}

// Evento is an event record used for attendance.
// Situacao and Frequencia are kept verbatim; attendance matching depends on the raw text.
type Evento struct {
	ID         ID     `json:"id"`
	Situacao   string `json:"situacao"`
	Frequencia string `json:"frequencia"`
}
