package gnucash

// schema holds the subset of the GnuCash SQLite schema this package reads
// and writes. Column names and types follow the GnuCash SQL backend so
// existing books open unchanged; CREATE runs only for new books.
const schema = `
CREATE TABLE IF NOT EXISTS gnclock (
    Hostname varchar(255),
    PID int
);

CREATE TABLE IF NOT EXISTS books (
    guid text(32) PRIMARY KEY NOT NULL,
    root_account_guid text(32) NOT NULL,
    root_template_guid text(32) NOT NULL
);

CREATE TABLE IF NOT EXISTS commodities (
    guid text(32) PRIMARY KEY NOT NULL,
    namespace text(2048) NOT NULL,
    mnemonic text(2048) NOT NULL,
    fullname text(2048),
    cusip text(2048),
    fraction integer NOT NULL,
    quote_flag integer NOT NULL,
    quote_source text(2048),
    quote_tz text(2048)
);

CREATE TABLE IF NOT EXISTS accounts (
    guid text(32) PRIMARY KEY NOT NULL,
    name text(2048) NOT NULL,
    account_type text(2048) NOT NULL,
    commodity_guid text(32),
    commodity_scu integer NOT NULL,
    non_std_scu integer NOT NULL,
    parent_guid text(32),
    code text(2048),
    description text(2048),
    hidden integer,
    placeholder integer
);

CREATE TABLE IF NOT EXISTS transactions (
    guid text(32) PRIMARY KEY NOT NULL,
    currency_guid text(32) NOT NULL,
    num text(2048) NOT NULL,
    post_date text(19),
    enter_date text(19),
    description text(2048)
);

CREATE TABLE IF NOT EXISTS splits (
    guid text(32) PRIMARY KEY NOT NULL,
    tx_guid text(32) NOT NULL,
    account_guid text(32) NOT NULL,
    memo text(2048) NOT NULL,
    action text(2048) NOT NULL,
    reconcile_state text(1) NOT NULL,
    reconcile_date text(19),
    value_num bigint NOT NULL,
    value_denom bigint NOT NULL,
    quantity_num bigint NOT NULL,
    quantity_denom bigint NOT NULL,
    lot_guid text(32)
);

CREATE INDEX IF NOT EXISTS tx_post_date_index ON transactions(post_date);
CREATE INDEX IF NOT EXISTS splits_tx_guid_index ON splits(tx_guid);
CREATE INDEX IF NOT EXISTS splits_account_guid_index ON splits(account_guid);
`

// requiredTables must all exist for a file to be treated as a book.
var requiredTables = []string{"books", "commodities", "accounts", "transactions", "splits"}
