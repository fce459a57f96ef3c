// internal/repository/postgres/schema.go
package postgres

// Schema is the relational schema for the ledger store. Applied by
// `seed migrate`; every statement is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS branches (
    id          UUID PRIMARY KEY,
    name        TEXT NOT NULL,
    address     TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS users (
    id          UUID PRIMARY KEY,
    name        TEXT NOT NULL,
    username    TEXT NOT NULL UNIQUE,
    role        TEXT NOT NULL,
    branch_id   UUID REFERENCES branches(id)
);

CREATE TABLE IF NOT EXISTS products (
    id              UUID PRIMARY KEY,
    name            TEXT NOT NULL,
    code            TEXT UNIQUE,
    cost            NUMERIC(14,2) NOT NULL DEFAULT 0,
    retail_price    NUMERIC(14,2) NOT NULL DEFAULT 0,
    wholesale_price NUMERIC(14,2) NOT NULL DEFAULT 0,
    unit            TEXT NOT NULL DEFAULT 'PZA',
    category_id     UUID,
    provider_id     UUID,
    active          BOOLEAN NOT NULL DEFAULT TRUE,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS branch_stock (
    id          UUID PRIMARY KEY,
    product_id  UUID NOT NULL REFERENCES products(id),
    branch_id   UUID NOT NULL REFERENCES branches(id),
    quantity    NUMERIC(14,3) NOT NULL DEFAULT 0,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (product_id, branch_id)
);

CREATE TABLE IF NOT EXISTS customers (
    id              UUID PRIMARY KEY,
    name            TEXT NOT NULL,
    phone           TEXT,
    email           TEXT,
    address         TEXT,
    credit_limit    NUMERIC(14,2) NOT NULL DEFAULT 0,
    current_balance NUMERIC(14,2) NOT NULL DEFAULT 0,
    branch_id       UUID REFERENCES branches(id),
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS employee_shifts (
    id                  UUID PRIMARY KEY,
    user_id             UUID NOT NULL REFERENCES users(id),
    branch_id           UUID REFERENCES branches(id),
    start_time          TIMESTAMPTZ NOT NULL,
    end_time            TIMESTAMPTZ,
    initial_cash        NUMERIC(14,2) NOT NULL DEFAULT 0,
    final_cash_expected NUMERIC(14,2),
    final_cash_actual   NUMERIC(14,2),
    difference          NUMERIC(14,2)
);
CREATE INDEX IF NOT EXISTS idx_shifts_user_open ON employee_shifts (user_id) WHERE end_time IS NULL;

CREATE TABLE IF NOT EXISTS sale_headers (
    id              UUID PRIMARY KEY,
    branch_id       UUID NOT NULL REFERENCES branches(id),
    user_id         UUID NOT NULL REFERENCES users(id),
    shift_id        UUID REFERENCES employee_shifts(id),
    customer_id     UUID REFERENCES customers(id),
    total           NUMERIC(14,2) NOT NULL,
    payment_method  TEXT NOT NULL,
    status          TEXT NOT NULL,
    date            TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_sales_user_date ON sale_headers (user_id, date);

CREATE TABLE IF NOT EXISTS sale_details (
    id          UUID PRIMARY KEY,
    sale_id     UUID NOT NULL REFERENCES sale_headers(id) ON DELETE CASCADE,
    product_id  UUID NOT NULL REFERENCES products(id),
    quantity    NUMERIC(14,3) NOT NULL,
    unit_price  NUMERIC(14,2) NOT NULL,
    subtotal    NUMERIC(14,2) NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sale_details_sale ON sale_details (sale_id);

CREATE TABLE IF NOT EXISTS stock_transfers (
    id                UUID PRIMARY KEY,
    source_branch_id  UUID NOT NULL REFERENCES branches(id),
    dest_branch_id    UUID NOT NULL REFERENCES branches(id),
    status            TEXT NOT NULL,
    date              TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS transfer_details (
    id          UUID PRIMARY KEY,
    transfer_id UUID NOT NULL REFERENCES stock_transfers(id) ON DELETE CASCADE,
    product_id  UUID NOT NULL REFERENCES products(id),
    quantity    NUMERIC(14,3) NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transfer_details_transfer ON transfer_details (transfer_id);

CREATE TABLE IF NOT EXISTS cash_movements (
    id          UUID PRIMARY KEY,
    type        TEXT NOT NULL,
    amount      NUMERIC(14,2) NOT NULL,
    reason      TEXT NOT NULL DEFAULT '',
    user_id     UUID NOT NULL REFERENCES users(id),
    branch_id   UUID NOT NULL REFERENCES branches(id),
    date        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_movements_user_date ON cash_movements (user_id, date);

CREATE TABLE IF NOT EXISTS expenses (
    id          UUID PRIMARY KEY,
    amount      NUMERIC(14,2) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    category    TEXT NOT NULL DEFAULT '',
    branch_id   UUID NOT NULL REFERENCES branches(id),
    date        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS credit_payments (
    id              UUID PRIMARY KEY,
    customer_id     UUID NOT NULL REFERENCES customers(id),
    amount          NUMERIC(14,2) NOT NULL,
    payment_method  TEXT NOT NULL,
    date            TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS inventory_adjustments (
    id          UUID PRIMARY KEY,
    product_id  UUID NOT NULL REFERENCES products(id),
    branch_id   UUID NOT NULL REFERENCES branches(id),
    user_id     UUID NOT NULL REFERENCES users(id),
    quantity    NUMERIC(14,3) NOT NULL,
    reason      TEXT NOT NULL DEFAULT '',
    date        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS system_logs (
    id          UUID PRIMARY KEY,
    user_id     UUID,
    action      TEXT NOT NULL,
    details     TEXT NOT NULL DEFAULT '',
    date        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
