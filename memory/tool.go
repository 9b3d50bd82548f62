package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spetersoncode/scout/tool"
)

// Actions accepted by the memory tool.
const (
	ActionStore    = "store"
	ActionRetrieve = "retrieve"
	ActionList     = "list"
	ActionDelete   = "delete"
)

// Args are the arguments of the memory tool.
type Args struct {
	Action   string `json:"action" desc:"What to do with memory" enum:"store,retrieve,list,delete" required:"true"`
	UserID   string `json:"user_id" desc:"The user the memory belongs to" required:"true"`
	Content  string `json:"content,omitempty" desc:"The fact to remember (store)"`
	Query    string `json:"query,omitempty" desc:"What to look for (retrieve)"`
	MemoryID string `json:"memory_id,omitempty" desc:"The memory to forget (delete)"`
	Limit    int    `json:"limit,omitempty" desc:"Maximum number of memories to return (retrieve, list)"`
}

// NewTool returns the memory tool backed by s. Misuse such as a missing
// field is reported as text so the model can correct itself.
func NewTool(s *Service) tool.Registration {
	return tool.Func("memory",
		"Store, retrieve, list or delete long-term memories about a user. "+
			"Use it to remember preferences and facts across conversations.",
		func(ctx context.Context, args Args) (string, error) {
			action := strings.ToLower(strings.TrimSpace(args.Action))
			if strings.TrimSpace(args.UserID) == "" {
				return "A user_id is required.", nil
			}

			switch action {
			case ActionStore:
				m, err := s.Store(ctx, args.UserID, args.Content)
				if errors.Is(err, ErrEmpty) {
					return "Nothing to store: content is empty.", nil
				}
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Stored memory %s.", m.ID), nil

			case ActionRetrieve:
				if strings.TrimSpace(args.Query) == "" {
					return "A query is required to retrieve memories.", nil
				}
				matches, err := s.Retrieve(ctx, args.UserID, args.Query, args.Limit)
				if err != nil {
					return "", err
				}
				if len(matches) == 0 {
					return "No relevant memories found.", nil
				}
				mems := make([]Memory, len(matches))
				for i, m := range matches {
					mems[i] = m.Memory
				}
				return formatMemories(mems), nil

			case ActionList:
				mems, err := s.List(ctx, args.UserID, args.Limit)
				if err != nil {
					return "", err
				}
				if len(mems) == 0 {
					return "No memories stored.", nil
				}
				return formatMemories(mems), nil

			case ActionDelete:
				if strings.TrimSpace(args.MemoryID) == "" {
					return "A memory_id is required to delete a memory.", nil
				}
				err := s.Delete(ctx, args.UserID, args.MemoryID)
				if errors.Is(err, ErrNotFound) {
					return fmt.Sprintf("No memory found with ID %s.", args.MemoryID), nil
				}
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Deleted memory %s.", args.MemoryID), nil

			default:
				return fmt.Sprintf("Unknown action %q. Use store, retrieve, list or delete.", args.Action), nil
			}
		})
}

func formatMemories(mems []Memory) string {
	var sb strings.Builder
	for i, m := range mems {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d. [%s] %s", i+1, m.ID, m.Content)
	}
	return sb.String()
}
