package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nexus/zapcampaign/internal/models"
)

// Column headers as exported from the scheduling board.
const (
	colTaskID                   = "Task ID"
	colTaskName                 = "Task Name"
	colPipeID                   = "Pipe id (short text)"
	colStatusEscala             = "Status escala (drop down)"
	colDataSolicitacaoEscala    = "Data solicitação escala (date)"
	colDataEquipeEscalada       = "Data equipe escalada (date)"
	colTempoSolucao             = "Tempo solução (formula)"
	colSubareaProjeto           = "Subárea projeto (drop down)"
	colFilialAtendimento        = "Filial de Atendimento (drop down)"
	colAssignee                 = "Assignee"
	colTamanhoEvento            = "Tamanho do Evento (drop down)"
	colProduto                  = "Produto (A&B) (drop down)"
	colZigTickets               = "Zig.Tickets (drop down)"
	colSolucao                  = "Solução (A&B) (labels)"
	colQtdHead                  = "Qtd. head (number)"
	colEventoProprioTreinamento = "Evento propício a treinamento? (drop down)"
	colQtdCoordenador           = "Qtd. coordenador (number)"
	colQtdCCO                   = "Qtd. C-CCO (number)"
	colQtdSupervisor            = "Qtd. supervisor (number)"
	colQtdTecnico               = "Qtd. técnico (number)"
	colEquipeEscalada           = "Equipe escalada (list relationship)"
	colOrcamento                = "Orçamento? (drop down)"
	colFormaPagamentoEquipe     = "Forma pagamento equipe técnica (drop down)"
	colValorPagamentoEquipe     = "Valor pagamento equipe técnica (text)"
	colViagem                   = "Viagem (drop down)"
	colDataViagem               = "Data viagem (saída e retorno) (text)"
	colHospedagem               = "Hospedagem (drop down)"
	colQtdCNH                   = "Qtd. CNH (drop down)"
	colTipoTransporte           = "Tipo transporte (drop down)"
	colTipoAlimentacao          = "Tipo alimentação (drop down)"
	colDataRetiradaVeiculo      = "Data retirada veiculo (date)"
	colDataRetiradaEquipamentos = "Data retirada equipamentos no escritório (date)"
	colDataChegadaEvento        = "Data chegada evento (date)"
	colDataInicioGolive         = "Data início Go live (date)"
	colDataTerminoGolive        = "Data término Go live (date)"
	colDataPrevisaoRetorno      = "Data previsão retorno equipamentos (date)"
	colDatasGolive              = "Datas go live (01/01/2024, 02/01/2024...) (text)"
	colEnderecoEvento           = "Endereço evento (location)"
	colCredenciamento           = "Credenciamento (drop down)"
	colDataEnvioCredenciamento  = "Data envio credenciamento (date)"
	colCredenciamentoAttachment = "Credenciamento (attachment)"
	colContratoIntermitente     = "Contrato Intermitente (drop down)"
	colInformacoesAdicionais    = "Informações adicionais para escala (text)"
	colCliente                  = "Cliente (organização/produtora) (short text)"
	colChaveAtivacao            = "Chave ativação/Place ID (short text)"
	colCodEvento                = "COD. EVENTO (short text)"
)

// BatchTag names one upload.
func BatchTag(now time.Time) string {
	return fmt.Sprintf("Lote_%d", now.UnixMilli())
}

// ProcessTasks maps sheet rows onto tasks tagged with lote. Missing text
// columns become "", missing numbers 0 and unparseable dates nil.
func ProcessTasks(rows []Row, lote string) []models.Task {
	tasks := make([]models.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, models.Task{
			Lote:                     lote,
			TaskID:                   text(r[colTaskID]),
			TaskName:                 text(r[colTaskName]),
			PipeID:                   text(r[colPipeID]),
			StatusEscala:             text(r[colStatusEscala]),
			DataSolicitacaoEscala:    date(r[colDataSolicitacaoEscala]),
			DataEquipeEscalada:       date(r[colDataEquipeEscalada]),
			TempoSolucao:             text(r[colTempoSolucao]),
			SubareaProjeto:           text(r[colSubareaProjeto]),
			FilialAtendimento:        text(r[colFilialAtendimento]),
			Assignee:                 text(r[colAssignee]),
			TamanhoEvento:            text(r[colTamanhoEvento]),
			Produto:                  text(r[colProduto]),
			ZigTickets:               text(r[colZigTickets]),
			Solucao:                  text(r[colSolucao]),
			QtdHead:                  integer(r[colQtdHead]),
			EventoProprioTreinamento: text(r[colEventoProprioTreinamento]),
			QtdCoordenador:           integer(r[colQtdCoordenador]),
			QtdCCO:                   integer(r[colQtdCCO]),
			QtdSupervisor:            integer(r[colQtdSupervisor]),
			QtdTecnico:               integer(r[colQtdTecnico]),
			EquipeEscalada:           text(r[colEquipeEscalada]),
			Orcamento:                text(r[colOrcamento]),
			FormaPagamentoEquipe:     text(r[colFormaPagamentoEquipe]),
			ValorPagamentoEquipe:     text(r[colValorPagamentoEquipe]),
			Viagem:                   text(r[colViagem]),
			DataViagem:               text(r[colDataViagem]),
			Hospedagem:               text(r[colHospedagem]),
			QtdCNH:                   integer(r[colQtdCNH]),
			TipoTransporte:           text(r[colTipoTransporte]),
			TipoAlimentacao:          text(r[colTipoAlimentacao]),
			DataRetiradaVeiculo:      date(r[colDataRetiradaVeiculo]),
			DataRetiradaEquipamentos: date(r[colDataRetiradaEquipamentos]),
			DataChegadaEvento:        date(r[colDataChegadaEvento]),
			DataInicioGolive:         date(r[colDataInicioGolive]),
			DataTerminoGolive:        date(r[colDataTerminoGolive]),
			DataPrevisaoRetorno:      date(r[colDataPrevisaoRetorno]),
			DatasGolive:              text(r[colDatasGolive]),
			EnderecoEvento:           text(r[colEnderecoEvento]),
			Credenciamento:           text(r[colCredenciamento]),
			DataEnvioCredenciamento:  date(r[colDataEnvioCredenciamento]),
			CredenciamentoAttachment: text(r[colCredenciamentoAttachment]),
			ContratoIntermitente:     text(r[colContratoIntermitente]),
			InformacoesAdicionais:    text(r[colInformacoesAdicionais]),
			Cliente:                  text(r[colCliente]),
			ChaveAtivacao:            optionalText(r[colChaveAtivacao]),
			CodEvento:                optionalText(r[colCodEvento]),
		})
	}
	return tasks
}

// --- value coercion ---

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func optionalText(v any) *string {
	s := text(v)
	if s == "" {
		return nil
	}
	return &s
}

// integer reads the leading integer of v ("12 pessoas" is 12). Anything
// without one is 0.
func integer(v any) int {
	s := strings.TrimSpace(text(v))
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"01-02-06",
	"1/2/06 15:04",
	"1/2/06",
}

// date parses v as a timestamp. Numbers are Unix milliseconds; month comes
// before day in slash dates.
func date(v any) *time.Time {
	if n, ok := v.(json.Number); ok {
		ms, err := n.Int64()
		if err != nil {
			return nil
		}
		t := time.UnixMilli(ms).UTC()
		return &t
	}
	s := strings.TrimSpace(text(v))
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
