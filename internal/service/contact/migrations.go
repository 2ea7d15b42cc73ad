package contact

// schema creates the contact tables. Phones cascade with their person.
const schema = `
CREATE TABLE IF NOT EXISTS persons (
    id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    owner_email TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS phone_numbers (
    id TEXT PRIMARY KEY,
    person_id TEXT NOT NULL,
    phone TEXT NOT NULL,
    kind TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (person_id) REFERENCES persons(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_persons_owner ON persons(owner_email, created_at, id);
CREATE INDEX IF NOT EXISTS idx_phone_numbers_person ON phone_numbers(person_id, created_at, id);
`
