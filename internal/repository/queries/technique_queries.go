package queries

const (
	QueryGetTechnique  = `SELECT id, name, description, parameters FROM techniques WHERE id = $1;`
	QueryGetTechniques = `SELECT id, name, description, parameters FROM techniques WHERE id = ANY($1);`

	// strpos вместо ILIKE: % и _ в фильтре ищутся буквально
	QueryListTechniques = `
		SELECT id, name, description, parameters
		FROM techniques
		WHERE strpos(lower(name), lower($1::text)) > 0
		ORDER BY name;
	`
	QueryUpsertTechnique = `
		INSERT INTO techniques (id, name, description, parameters)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description, parameters = EXCLUDED.parameters;
	`
)
