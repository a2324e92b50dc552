package testutil

import (
	"fmt"
)

// Fixture ids used across package tests.
const (
	DeputadoID   = 204554
	ProposicaoID = 2345678
)

// DeputadoListItem is one record in the list shape returned by GET /deputados.
const DeputadoListItem = `{
	"id": 204554,
	"uri": "https://dadosabertos.camara.leg.br/api/v2/deputados/204554",
	"nome": "Maria Aparecida Souza",
	"siglaPartido": "pt",
	"uriPartido": "https://dadosabertos.camara.leg.br/api/v2/partidos/36844",
	"siglaUf": "SP",
	"idLegislatura": 57,
	"urlFoto": "https://www.camara.leg.br/internet/deputado/bandep/204554.jpg",
	"email": "dep.mariasouza@camara.leg.br"
}`

// DeputadoDetail is the detail shape returned by GET /deputados/{id},
// with the current-status fields nested under ultimoStatus.
const DeputadoDetail = `{
	"id": 204554,
	"uri": "https://dadosabertos.camara.leg.br/api/v2/deputados/204554",
	"nomeCivil": "MARIA APARECIDA SOUZA",
	"ultimoStatus": {
		"id": 204554,
		"nome": "Maria Aparecida Souza",
		"siglaPartido": "PT",
		"siglaUf": "SP",
		"idLegislatura": 57,
		"urlFoto": "https://www.camara.leg.br/internet/deputado/bandep/204554.jpg",
		"email": "dep.mariasouza@camara.leg.br",
		"data": "2023-02-01",
		"nomeEleitoral": "Maria Souza",
		"gabinete": {
			"nome": "512",
			"predio": "4",
			"sala": "512",
			"andar": "5",
			"telefone": "3215-5512",
			"email": "dep.mariasouza@camara.leg.br"
		},
		"situacao": "Exercício",
		"condicaoEleitoral": "Titular",
		"descricaoStatus": null
	},
	"cpf": "",
	"sexo": "F",
	"urlWebsite": null,
	"redeSocial": [
		"https://twitter.com/mariasouza",
		"https://www.instagram.com/mariasouza",
		"https://www.facebook.com/mariasouza",
		"https://www.youtube.com/@mariasouza"
	],
	"dataNascimento": "1975-08-21",
	"dataFalecimento": null,
	"ufNascimento": "SP",
	"municipioNascimento": "Campinas",
	"escolaridade": "Superior"
}`

// Orgaos is a /deputados/{id}/orgaos payload.
const Orgaos = `[
	{
		"idOrgao": 2003,
		"uriOrgao": "https://dadosabertos.camara.leg.br/api/v2/orgaos/2003",
		"siglaOrgao": "CCJC",
		"nomeOrgao": "Comissão de Constituição e Justiça e de Cidadania",
		"nomePublicacao": "Constituição e Justiça e de Cidadania",
		"titulo": "Titular",
		"codTitulo": "101",
		"dataInicio": "2023-03-07T00:00",
		"dataFim": null
	},
	{
		"idOrgao": 5438,
		"uriOrgao": "https://dadosabertos.camara.leg.br/api/v2/orgaos/5438",
		"siglaOrgao": "CMULHER",
		"nomeOrgao": "Comissão de Defesa dos Direitos da Mulher",
		"nomePublicacao": null,
		"titulo": "null",
		"codTitulo": "102",
		"dataInicio": "2023-03-07T00:00",
		"dataFim": "2024-01-31T00:00"
	}
]`

// Historico is a /deputados/{id}/historico payload.
const Historico = `[
	{
		"id": 204554,
		"nome": "Maria Aparecida Souza",
		"nomeEleitoral": "Maria Souza",
		"siglaPartido": "PT",
		"siglaUf": "SP",
		"idLegislatura": 57,
		"email": null,
		"urlFoto": "https://www.camara.leg.br/internet/deputado/bandep/204554.jpg",
		"dataHora": "2023-02-01T00:00",
		"situacao": "Exercício",
		"condicaoEleitoral": "Titular",
		"descricaoStatus": "Posse de Deputado Titular"
	},
	{
		"id": 204554,
		"nome": "Maria Aparecida Souza",
		"nomeEleitoral": "Maria Souza",
		"siglaPartido": "PT",
		"siglaUf": "SP",
		"idLegislatura": 57,
		"email": null,
		"urlFoto": "",
		"dataHora": "2024-04-10T14:30",
		"situacao": "Licença",
		"condicaoEleitoral": "null",
		"descricaoStatus": null
	}
]`

// Proposicoes is a /proposicoes?idDeputadoAutor={id} payload.
const Proposicoes = `[
	{
		"id": 2345678,
		"uri": "https://dadosabertos.camara.leg.br/api/v2/proposicoes/2345678",
		"siglaTipo": "PL",
		"codTipo": 139,
		"numero": 1234,
		"ano": 2023,
		"ementa": "Dispõe sobre a transparência de gastos públicos."
	},
	{
		"id": 2345679,
		"uri": "https://dadosabertos.camara.leg.br/api/v2/proposicoes/2345679",
		"siglaTipo": "PEC",
		"codTipo": 136,
		"numero": 45,
		"ano": 2024,
		"ementa": null
	}
]`

// ProposicaoDetail is a /proposicoes/{id} payload.
const ProposicaoDetail = `{
	"id": 2345678,
	"uri": "https://dadosabertos.camara.leg.br/api/v2/proposicoes/2345678",
	"siglaTipo": "PL",
	"codTipo": 139,
	"numero": 1234,
	"ano": 2023,
	"ementa": "Dispõe sobre a transparência de gastos públicos.",
	"dataApresentacao": "2023-05-10T16:45",
	"statusProposicao": {
		"dataHora": "2024-02-20T10:00",
		"sequencia": 12,
		"siglaOrgao": "PLEN",
		"descricaoTramitacao": "Votação",
		"descricaoSituacao": "Aprovada",
		"despacho": "Aprovado o projeto."
	}
}`

// Despesas is a /deputados/{id}/despesas payload.
const Despesas = `[
	{
		"ano": 2024,
		"mes": 3,
		"tipoDespesa": "COMBUSTÍVEIS E LUBRIFICANTES.",
		"codDocumento": 7712345,
		"tipoDocumento": "Nota Fiscal",
		"dataDocumento": "2024-03-05T00:00:00",
		"numDocumento": "123",
		"valorDocumento": 250.35,
		"valorLiquido": 250.35,
		"nomeFornecedor": "POSTO CENTRAL LTDA",
		"cnpjCpfFornecedor": "12345678000199"
	},
	{
		"ano": 2024,
		"mes": 2,
		"tipoDespesa": "PASSAGEM AÉREA - SIGEPA",
		"valorDocumento": 1200.10,
		"nomeFornecedor": "CIA AEREA",
		"cnpjCpfFornecedor": "98765432000188"
	},
	{
		"ano": 2024,
		"mes": 3,
		"tipoDespesa": "COMBUSTÍVEIS E LUBRIFICANTES.",
		"valorDocumento": null,
		"nomeFornecedor": null
	}
]`

// Eventos is a /deputados/{id}/eventos payload mixing realized and cancelled sessions.
const Eventos = `[
	{"id": 1, "situacao": "Encerrada (Realizada)", "frequencia": "Presença", "descricaoTipo": "Sessão Deliberativa"},
	{"id": 2, "situacao": "Realizada", "frequencia": "Ausência", "descricaoTipo": "Sessão Deliberativa"},
	{"id": 3, "situacao": "Cancelada", "frequencia": "Presença", "descricaoTipo": "Sessão Deliberativa"},
	{"id": 4, "situacao": "Realizada", "frequencia": "Ausência justificada", "descricaoTipo": "Reunião"},
	{"id": 5, "situacao": "Realizada", "frequencia": "Presentes", "descricaoTipo": "Reunião"},
	{"id": 6, "situacao": "Realizada", "frequencia": "Sem registro", "descricaoTipo": "Reunião"}
]`

// Envelope wraps dados in the upstream response envelope with a self link.
func Envelope(dados string) string {
	return fmt.Sprintf(`{"dados": %s, "links": [{"rel": "self", "href": "https://dadosabertos.camara.leg.br/api/v2"}]}`, dados)
}

// PagedEnvelope wraps dados with first/last links pointing at lastPage.
func PagedEnvelope(dados, href string, lastPage int) string {
	return fmt.Sprintf(`{"dados": %s, "links": [`+
		`{"rel": "self", "href": "%s?pagina=1"},`+
		`{"rel": "first", "href": "%s?pagina=1&itens=100"},`+
		`{"rel": "last", "href": "%s?pagina=%d&itens=100"}]}`,
		dados, href, href, href, lastPage)
}
