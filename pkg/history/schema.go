package history

const schema = `
CREATE TABLE IF NOT EXISTS installs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    app_name TEXT NOT NULL,
    app_version TEXT NOT NULL,
    mode TEXT NOT NULL,
    os TEXT NOT NULL,
    cpu_arch TEXT NOT NULL,
    timestamp TEXT NOT NULL,
    status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_installs_app ON installs(app_name);
`
