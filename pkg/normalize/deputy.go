package normalize

import (
	"errors"
	"strings"

	"github.com/politicosbr/camara-client/pkg/model"
)

// ErrMissingID is returned for records that carry no identifier.
var ErrMissingID = errors.New("record has no id")

// Gabinete is a deputy's office block.
type Gabinete struct {
	Nome     Text `json:"nome"`
	Predio   Text `json:"predio"`
	Sala     Text `json:"sala"`
	Andar    Text `json:"andar"`
	Telefone Text `json:"telefone"`
	Email    Text `json:"email"`
}

// StatusFields are the fields that appear either at the top level of a deputy
// record (list shape) or under ultimoStatus (detail shape).
type StatusFields struct {
	ID            ID        `json:"id"`
	Nome          Text      `json:"nome"`
	SiglaPartido  Text      `json:"siglaPartido"`
	SiglaUf       Text      `json:"siglaUf"`
	IDLegislatura Int       `json:"idLegislatura"`
	URLFoto       Text      `json:"urlFoto"`
	Email         Text      `json:"email"`
	Data          Text      `json:"data"`
	Situacao      Text      `json:"situacao"`
	Escolaridade  Text      `json:"escolaridade"`
	Gabinete      *Gabinete `json:"gabinete"`
}

// Deputado is an upstream deputy record in either shape.
type Deputado struct {
	StatusFields

	NomeCivil           Text          `json:"nomeCivil"`
	UltimoStatus        *StatusFields `json:"ultimoStatus"`
	RedeSocial          []Text        `json:"redeSocial"`
	DataNascimento      Text          `json:"dataNascimento"`
	UfNascimento        Text          `json:"ufNascimento"`
	MunicipioNascimento Text          `json:"municipioNascimento"`
}

// Shape identifies which upstream deputy layout a record uses.
type Shape int

const (
	// ListShape records carry every field at the top level.
	ListShape Shape = iota
	// DetailShape records nest current-status fields under ultimoStatus.
	DetailShape
)

// String returns the shape name.
func (s Shape) String() string {
	if s == DetailShape {
		return "detail"
	}
	return "list"
}

// Shape reports the record layout.
func (d *Deputado) Shape() Shape {
	if d.UltimoStatus != nil {
		return DetailShape
	}
	return ListShape
}

// probe reads status fields in order: top level first, then ultimoStatus.
type probe []*StatusFields

func (d *Deputado) probe() probe {
	if d.Shape() == DetailShape {
		return probe{&d.StatusFields, d.UltimoStatus}
	}
	return probe{&d.StatusFields}
}

func (p probe) text(field func(*StatusFields) Text) string {
	for _, s := range p {
		if v := field(s); v != "" {
			return string(v)
		}
	}
	return ""
}

func (p probe) integer(field func(*StatusFields) Int) int {
	for _, s := range p {
		if v := field(s); v != 0 {
			return int(v)
		}
	}
	return 0
}

func (p probe) gabinete() Gabinete {
	for _, s := range p {
		if s.Gabinete != nil {
			return *s.Gabinete
		}
	}
	return Gabinete{}
}

// Legislator maps the record to a model.Legislator.
func (d *Deputado) Legislator() (model.Legislator, error) {
	p := d.probe()

	id := p.text(func(s *StatusFields) Text { return Text(s.ID) })
	if id == "" {
		return model.Legislator{}, ErrMissingID
	}

	gab := p.gabinete()

	name := firstText(d.Nome, d.NomeCivil)
	if name == "" {
		name = p.text(func(s *StatusFields) Text { return s.Nome })
	}

	birthplace := ""
	if d.UfNascimento != "" {
		birthplace = string(d.UfNascimento)
		if d.MunicipioNascimento != "" {
			birthplace = string(d.MunicipioNascimento) + " - " + birthplace
		}
	}

	social := make([]string, len(d.RedeSocial))
	for i, r := range d.RedeSocial {
		social[i] = string(r)
	}

	return model.Legislator{
		ID:                id,
		Name:              name,
		Party:             strings.ToUpper(p.text(func(s *StatusFields) Text { return s.SiglaPartido })),
		State:             strings.ToUpper(p.text(func(s *StatusFields) Text { return s.SiglaUf })),
		PhotoURL:          p.text(func(s *StatusFields) Text { return s.URLFoto }),
		Email:             firstText(gab.Email, Text(p.text(func(s *StatusFields) Text { return s.Email }))),
		Phone:             string(gab.Telefone),
		Status:            LegislatorStatus(p.text(func(s *StatusFields) Text { return s.Situacao })),
		LegislativeTermID: p.integer(func(s *StatusFields) Int { return s.IDLegislatura }),
		BirthDate:         FormatDate(firstText(d.DataNascimento, d.Data)),
		Birthplace:        birthplace,
		Education:         p.text(func(s *StatusFields) Text { return s.Escolaridade }),
		SocialLinks:       SocialLinks(social),
		Office: model.Office{
			Room:     string(gab.Sala),
			Building: string(gab.Predio),
			Floor:    string(gab.Andar),
			Phone:    string(gab.Telefone),
		},
	}, nil
}
