package sqlstore

import "testing"

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{
			name:    "sqlite unchanged",
			dialect: SQLite,
			query:   "SELECT id FROM tasks WHERE owner_id = ? AND date = ?",
			want:    "SELECT id FROM tasks WHERE owner_id = ? AND date = ?",
		},
		{
			name:    "postgres numbered",
			dialect: Postgres,
			query:   "SELECT id FROM tasks WHERE owner_id = ? AND date = ?",
			want:    "SELECT id FROM tasks WHERE owner_id = $1 AND date = $2",
		},
		{
			name:    "postgres repeated parameter",
			dialect: Postgres,
			query:   "UPDATE goals SET current_value = CASE WHEN current_value + ? < 0 THEN 0 ELSE current_value + ? END WHERE id = ?",
			want:    "UPDATE goals SET current_value = CASE WHEN current_value + $1 < 0 THEN 0 ELSE current_value + $2 END WHERE id = $3",
		},
		{
			name:    "no placeholders",
			dialect: Postgres,
			query:   "SELECT 1",
			want:    "SELECT 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.Rebind(tt.query); got != tt.want {
				t.Errorf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	if got := splitList(""); got != nil {
		t.Errorf("splitList(\"\") = %v, want nil", got)
	}
	if got := splitList("mon,fri"); len(got) != 2 || got[1] != "fri" {
		t.Errorf("splitList(\"mon,fri\") = %v", got)
	}
}
