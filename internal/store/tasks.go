// Package store persists uploaded task batches.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/nexus/zapcampaign/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id                          INTEGER PRIMARY KEY AUTOINCREMENT,
	lote                        TEXT NOT NULL,
	task_id                     TEXT NOT NULL DEFAULT '',
	task_name                   TEXT NOT NULL DEFAULT '',
	pipe_id                     TEXT NOT NULL DEFAULT '',
	status_escala               TEXT NOT NULL DEFAULT '',
	data_solicitacao_escala     TIMESTAMP,
	data_equipe_escalada        TIMESTAMP,
	tempo_solucao               TEXT NOT NULL DEFAULT '',
	subarea_projeto             TEXT NOT NULL DEFAULT '',
	filial_atendimento          TEXT NOT NULL DEFAULT '',
	assignee                    TEXT NOT NULL DEFAULT '',
	tamanho_evento              TEXT NOT NULL DEFAULT '',
	produto                     TEXT NOT NULL DEFAULT '',
	zig_tickets                 TEXT NOT NULL DEFAULT '',
	solucao                     TEXT NOT NULL DEFAULT '',
	qtd_head                    INTEGER NOT NULL DEFAULT 0,
	evento_proprio_treinamento  TEXT NOT NULL DEFAULT '',
	qtd_coordenador             INTEGER NOT NULL DEFAULT 0,
	qtd_cco                     INTEGER NOT NULL DEFAULT 0,
	qtd_supervisor              INTEGER NOT NULL DEFAULT 0,
	qtd_tecnico                 INTEGER NOT NULL DEFAULT 0,
	equipe_escalada             TEXT NOT NULL DEFAULT '',
	orcamento                   TEXT NOT NULL DEFAULT '',
	forma_pagamento_equipe      TEXT NOT NULL DEFAULT '',
	valor_pagamento_equipe      TEXT NOT NULL DEFAULT '',
	viagem                      TEXT NOT NULL DEFAULT '',
	data_viagem                 TEXT NOT NULL DEFAULT '',
	hospedagem                  TEXT NOT NULL DEFAULT '',
	qtd_cnh                     INTEGER NOT NULL DEFAULT 0,
	tipo_transporte             TEXT NOT NULL DEFAULT '',
	tipo_alimentacao            TEXT NOT NULL DEFAULT '',
	data_retirada_veiculo       TIMESTAMP,
	data_retirada_equipamentos  TIMESTAMP,
	data_chegada_evento         TIMESTAMP,
	data_inicio_golive          TIMESTAMP,
	data_termino_golive         TIMESTAMP,
	data_previsao_retorno       TIMESTAMP,
	datas_golive                TEXT NOT NULL DEFAULT '',
	endereco_evento             TEXT NOT NULL DEFAULT '',
	credenciamento              TEXT NOT NULL DEFAULT '',
	data_envio_credenciamento   TIMESTAMP,
	credenciamento_attachment   TEXT NOT NULL DEFAULT '',
	contrato_intermitente       TEXT NOT NULL DEFAULT '',
	informacoes_adicionais      TEXT NOT NULL DEFAULT '',
	cliente                     TEXT NOT NULL DEFAULT '',
	chave_ativacao              TEXT,
	cod_evento                  TEXT,
	criado_em                   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (lote, task_id)
);
CREATE INDEX IF NOT EXISTS tasks_lote_idx ON tasks (lote);
`

const insertTask = `
INSERT OR IGNORE INTO tasks (
	lote, task_id, task_name, pipe_id, status_escala, data_solicitacao_escala,
	data_equipe_escalada, tempo_solucao, subarea_projeto, filial_atendimento,
	assignee, tamanho_evento, produto, zig_tickets, solucao, qtd_head,
	evento_proprio_treinamento, qtd_coordenador, qtd_cco, qtd_supervisor,
	qtd_tecnico, equipe_escalada, orcamento, forma_pagamento_equipe,
	valor_pagamento_equipe, viagem, data_viagem, hospedagem, qtd_cnh,
	tipo_transporte, tipo_alimentacao, data_retirada_veiculo,
	data_retirada_equipamentos, data_chegada_evento, data_inicio_golive,
	data_termino_golive, data_previsao_retorno, datas_golive, endereco_evento,
	credenciamento, data_envio_credenciamento, credenciamento_attachment,
	contrato_intermitente, informacoes_adicionais, cliente, chave_ativacao,
	cod_evento
) VALUES (
	:lote, :task_id, :task_name, :pipe_id, :status_escala, :data_solicitacao_escala,
	:data_equipe_escalada, :tempo_solucao, :subarea_projeto, :filial_atendimento,
	:assignee, :tamanho_evento, :produto, :zig_tickets, :solucao, :qtd_head,
	:evento_proprio_treinamento, :qtd_coordenador, :qtd_cco, :qtd_supervisor,
	:qtd_tecnico, :equipe_escalada, :orcamento, :forma_pagamento_equipe,
	:valor_pagamento_equipe, :viagem, :data_viagem, :hospedagem, :qtd_cnh,
	:tipo_transporte, :tipo_alimentacao, :data_retirada_veiculo,
	:data_retirada_equipamentos, :data_chegada_evento, :data_inicio_golive,
	:data_termino_golive, :data_previsao_retorno, :datas_golive, :endereco_evento,
	:credenciamento, :data_envio_credenciamento, :credenciamento_attachment,
	:contrato_intermitente, :informacoes_adicionais, :cliente, :chave_ativacao,
	:cod_evento
)`

type TaskStore struct {
	db *sqlx.DB
}

// Open opens (and creates if needed) the sqlite task database.
func Open(ctx context.Context, path string) (*TaskStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sqlx.ConnectContext(ctx, "sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("open tasks db: %w", err)
	}
	return New(ctx, db)
}

func New(ctx context.Context, db *sqlx.DB) (*TaskStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &TaskStore{db: db}, nil
}

func (s *TaskStore) Close() error {
	return s.db.Close()
}

// SaveBatch inserts the tasks in one transaction. Rows repeating a
// (lote, task_id) pair are skipped; the number actually stored is returned.
func (s *TaskStore) SaveBatch(ctx context.Context, tasks []models.Task) (int64, error) {
	if len(tasks) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, insertTask)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var stored int64
	for _, t := range tasks {
		res, err := stmt.ExecContext(ctx, t)
		if err != nil {
			return 0, fmt.Errorf("insert task %q: %w", t.TaskID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		stored += n
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return stored, nil
}

func (s *TaskStore) List(ctx context.Context) ([]models.Task, error) {
	tasks := []models.Task{}
	err := s.db.SelectContext(ctx, &tasks, `SELECT * FROM tasks ORDER BY id ASC`)
	return tasks, err
}

func (s *TaskStore) ListByLote(ctx context.Context, lote string) ([]models.Task, error) {
	tasks := []models.Task{}
	err := s.db.SelectContext(ctx, &tasks, `SELECT * FROM tasks WHERE lote = ? ORDER BY id ASC`, lote)
	return tasks, err
}
