package store

const schema = `
CREATE TABLE IF NOT EXISTS banks (
	id   TEXT PRIMARY KEY,
	code TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bank_accounts (
	id                   TEXT PRIMARY KEY,
	bank_id              TEXT REFERENCES banks(id),
	name                 TEXT NOT NULL,
	type                 TEXT NOT NULL,
	branch               TEXT NOT NULL DEFAULT '',
	number               TEXT NOT NULL DEFAULT '',
	digit                TEXT NOT NULL DEFAULT '',
	initial_balance      TEXT NOT NULL DEFAULT '0.00',
	initial_balance_date TEXT,
	active               INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS contacts (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	name       TEXT NOT NULL,
	trade_name TEXT NOT NULL DEFAULT '',
	document   TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT '',
	active     INTEGER NOT NULL DEFAULT 1
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_contacts_document ON contacts(kind, document) WHERE document <> '';

CREATE TABLE IF NOT EXISTS categories (
	id        TEXT PRIMARY KEY,
	code      TEXT NOT NULL UNIQUE,
	name      TEXT NOT NULL,
	type      TEXT NOT NULL,
	parent_id TEXT REFERENCES categories(id),
	dre_group TEXT NOT NULL DEFAULT 'none',
	active    INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS terminals (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	provider        TEXT NOT NULL DEFAULT '',
	bank_account_id TEXT REFERENCES bank_accounts(id),
	active          INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS terminal_fees (
	id                TEXT PRIMARY KEY,
	terminal_id       TEXT NOT NULL REFERENCES terminals(id) ON DELETE CASCADE,
	method            TEXT NOT NULL,
	brand             TEXT NOT NULL DEFAULT '*',
	installments_from INTEGER NOT NULL DEFAULT 1,
	installments_to   INTEGER NOT NULL DEFAULT 1,
	rate_percent      TEXT NOT NULL DEFAULT '0.00',
	fixed_fee         TEXT NOT NULL DEFAULT '0.00',
	settlement_days   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_terminal_fees_terminal ON terminal_fees(terminal_id);

CREATE TABLE IF NOT EXISTS sales (
	id              TEXT PRIMARY KEY,
	date            TEXT NOT NULL,
	contact_id      TEXT REFERENCES contacts(id),
	description     TEXT NOT NULL DEFAULT '',
	gross           TEXT NOT NULL,
	discount        TEXT NOT NULL DEFAULT '0.00',
	method          TEXT NOT NULL,
	installments    INTEGER NOT NULL DEFAULT 1,
	terminal_id     TEXT REFERENCES terminals(id),
	card_brand      TEXT NOT NULL DEFAULT '',
	category_id     TEXT REFERENCES categories(id),
	bank_account_id TEXT REFERENCES bank_accounts(id),
	created_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(date);

CREATE TABLE IF NOT EXISTS entries (
	id                 TEXT PRIMARY KEY,
	kind               TEXT NOT NULL,
	description        TEXT NOT NULL,
	amount             TEXT NOT NULL,
	due_date           TEXT NOT NULL,
	competence_date    TEXT NOT NULL,
	status             TEXT NOT NULL,
	paid_at            TEXT,
	paid_amount        TEXT NOT NULL DEFAULT '0.00',
	contact_id         TEXT REFERENCES contacts(id),
	category_id        TEXT REFERENCES categories(id),
	bank_account_id    TEXT REFERENCES bank_accounts(id),
	document_number    TEXT NOT NULL DEFAULT '',
	batch_id           TEXT NOT NULL DEFAULT '',
	installment_number INTEGER NOT NULL DEFAULT 0,
	installment_total  INTEGER NOT NULL DEFAULT 0,
	sale_id            TEXT REFERENCES sales(id),
	notes              TEXT NOT NULL DEFAULT '',
	created_at         TEXT NOT NULL,
	updated_at         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_due ON entries(kind, due_date);
CREATE INDEX IF NOT EXISTS idx_entries_batch ON entries(batch_id);
CREATE INDEX IF NOT EXISTS idx_entries_sale ON entries(sale_id);

CREATE TABLE IF NOT EXISTS checks (
	id              TEXT PRIMARY KEY,
	direction       TEXT NOT NULL,
	number          TEXT NOT NULL,
	bank_code       TEXT NOT NULL DEFAULT '',
	branch          TEXT NOT NULL DEFAULT '',
	account         TEXT NOT NULL DEFAULT '',
	holder          TEXT NOT NULL DEFAULT '',
	holder_document TEXT NOT NULL DEFAULT '',
	amount          TEXT NOT NULL,
	issue_date      TEXT NOT NULL,
	good_for        TEXT NOT NULL,
	status          TEXT NOT NULL,
	contact_id      TEXT REFERENCES contacts(id),
	entry_id        TEXT REFERENCES entries(id) ON DELETE SET NULL,
	bank_account_id TEXT REFERENCES bank_accounts(id),
	notes           TEXT NOT NULL DEFAULT '',
	updated_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bank_transactions (
	id              TEXT PRIMARY KEY,
	bank_account_id TEXT NOT NULL REFERENCES bank_accounts(id),
	date            TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	amount          TEXT NOT NULL,
	reference       TEXT NOT NULL DEFAULT '',
	type            TEXT NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_bank_transactions_ref ON bank_transactions(bank_account_id, reference) WHERE reference <> '';
CREATE INDEX IF NOT EXISTS idx_bank_transactions_date ON bank_transactions(bank_account_id, date);

CREATE TABLE IF NOT EXISTS settings (
	id                      INTEGER PRIMARY KEY CHECK (id = 1),
	company_name            TEXT NOT NULL DEFAULT '',
	company_document        TEXT NOT NULL DEFAULT '',
	default_bank_account_id TEXT REFERENCES bank_accounts(id),
	overdue_grace_days      INTEGER NOT NULL DEFAULT 0,
	updated_at              TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'user',
	created_at    TEXT NOT NULL
);
`
