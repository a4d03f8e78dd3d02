package models

import "time"

// Task is one row of the scheduling sheet uploaded through /upload.
// Lote tags every row of the same upload.
type Task struct {
	ID   int64  `db:"id" json:"id"`
	Lote string `db:"lote" json:"lote"`

	TaskID                   string     `db:"task_id" json:"task_id"`
	TaskName                 string     `db:"task_name" json:"task_name"`
	PipeID                   string     `db:"pipe_id" json:"pipe_id"`
	StatusEscala             string     `db:"status_escala" json:"status_escala"`
	DataSolicitacaoEscala    *time.Time `db:"data_solicitacao_escala" json:"data_solicitacao_escala"`
	DataEquipeEscalada       *time.Time `db:"data_equipe_escalada" json:"data_equipe_escalada"`
	TempoSolucao             string     `db:"tempo_solucao" json:"tempo_solucao"`
	SubareaProjeto           string     `db:"subarea_projeto" json:"subarea_projeto"`
	FilialAtendimento        string     `db:"filial_atendimento" json:"filial_atendimento"`
	Assignee                 string     `db:"assignee" json:"assignee"`
	TamanhoEvento            string     `db:"tamanho_evento" json:"tamanho_evento"`
	Produto                  string     `db:"produto" json:"produto"`
	ZigTickets               string     `db:"zig_tickets" json:"zig_tickets"`
	Solucao                  string     `db:"solucao" json:"solucao"`
	QtdHead                  int        `db:"qtd_head" json:"qtd_head"`
	EventoProprioTreinamento string     `db:"evento_proprio_treinamento" json:"evento_proprio_treinamento"`
	QtdCoordenador           int        `db:"qtd_coordenador" json:"qtd_coordenador"`
	QtdCCO                   int        `db:"qtd_cco" json:"qtd_cco"`
	QtdSupervisor            int        `db:"qtd_supervisor" json:"qtd_supervisor"`
	QtdTecnico               int        `db:"qtd_tecnico" json:"qtd_tecnico"`
	EquipeEscalada           string     `db:"equipe_escalada" json:"equipe_escalada"`
	Orcamento                string     `db:"orcamento" json:"orcamento"`
	FormaPagamentoEquipe     string     `db:"forma_pagamento_equipe" json:"forma_pagamento_equipe"`
	ValorPagamentoEquipe     string     `db:"valor_pagamento_equipe" json:"valor_pagamento_equipe"`
	Viagem                   string     `db:"viagem" json:"viagem"`
	DataViagem               string     `db:"data_viagem" json:"data_viagem"`
	Hospedagem               string     `db:"hospedagem" json:"hospedagem"`
	QtdCNH                   int        `db:"qtd_cnh" json:"qtd_cnh"`
	TipoTransporte           string     `db:"tipo_transporte" json:"tipo_transporte"`
	TipoAlimentacao          string     `db:"tipo_alimentacao" json:"tipo_alimentacao"`
	DataRetiradaVeiculo      *time.Time `db:"data_retirada_veiculo" json:"data_retirada_veiculo"`
	DataRetiradaEquipamentos *time.Time `db:"data_retirada_equipamentos" json:"data_retirada_equipamentos"`
	DataChegadaEvento        *time.Time `db:"data_chegada_evento" json:"data_chegada_evento"`
	DataInicioGolive         *time.Time `db:"data_inicio_golive" json:"data_inicio_golive"`
	DataTerminoGolive        *time.Time `db:"data_termino_golive" json:"data_termino_golive"`
	DataPrevisaoRetorno      *time.Time `db:"data_previsao_retorno" json:"data_previsao_retorno"`
	DatasGolive              string     `db:"datas_golive" json:"datas_golive"`
	EnderecoEvento           string     `db:"endereco_evento" json:"endereco_evento"`
	Credenciamento           string     `db:"credenciamento" json:"credenciamento"`
	DataEnvioCredenciamento  *time.Time `db:"data_envio_credenciamento" json:"data_envio_credenciamento"`
	CredenciamentoAttachment string     `db:"credenciamento_attachment" json:"credenciamento_attachment"`
	ContratoIntermitente     string     `db:"contrato_intermitente" json:"contrato_intermitente"`
	InformacoesAdicionais    string     `db:"informacoes_adicionais" json:"informacoes_adicionais"`
	Cliente                  string     `db:"cliente" json:"cliente"`
	ChaveAtivacao            *string    `db:"chave_ativacao" json:"chave_ativacao"`
	CodEvento                *string    `db:"cod_evento" json:"cod_evento"`

	CriadoEm time.Time `db:"criado_em" json:"criado_em"`
}
