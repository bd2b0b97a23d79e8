package realtime

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannelNames(t *testing.T) {
	require.Equal(t, "User42", UserChannel(42))
	require.Equal(t, "Project7", ProjectChannel(7))
}

func TestRegistryJoinAndLeave(t *testing.T) {
	r := NewRegistry()
	r.Register("c1")
	r.Register("c2")

	r.Join("c1", "User1")
	r.Join("c1", "Project7")
	r.Join("c2", "Project7")

	require.ElementsMatch(t, []string{"c1", "c2"}, r.MembersOf("Project7"))
	require.ElementsMatch(t, []string{"User1", "Project7"}, r.Channels("c1"))

	r.Leave("c1", "Project7")
	require.ElementsMatch(t, []string{"c2"}, r.MembersOf("Project7"))
	require.ElementsMatch(t, []string{"User1"}, r.Channels("c1"))
}

func TestRegistryJoinIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Register("c1")

	r.Join("c1", "User1")
	r.Join("c1", "User1")

	require.Len(t, r.MembersOf("User1"), 1)
	require.Len(t, r.Channels("c1"), 1)
}

func TestRegistryJoinUnknownConnectionIsNoOp(t *testing.T) {
	r := NewRegistry()

	// A join arriving after disconnect must not resurrect the connection
	r.Join("ghost", "User1")

	require.False(t, r.Known("ghost"))
	require.Empty(t, r.MembersOf("User1"))
}

func TestRegistryRemoveDropsEveryEdge(t *testing.T) {
	r := NewRegistry()
	r.Register("c1")
	r.Register("c2")
	r.Join("c1", "User1")
	r.Join("c1", "Project7")
	r.Join("c2", "Project7")

	r.Remove("c1")

	require.False(t, r.Known("c1"))
	require.Empty(t, r.MembersOf("User1"))
	require.ElementsMatch(t, []string{"c2"}, r.MembersOf("Project7"))

	// Removing again is harmless
	r.Remove("c1")
}

func TestRegistryClearAllKeepsConnection(t *testing.T) {
	r := NewRegistry()
	r.Register("c1")
	r.Join("c1", "User1")
	r.Join("c1", "Project7")

	r.ClearAll("c1")

	require.True(t, r.Known("c1"))
	require.Empty(t, r.Channels("c1"))
	require.Empty(t, r.MembersOf("User1"))
	require.Empty(t, r.MembersOf("Project7"))

	// The connection can join again after a sign-out
	r.Join("c1", "User2")
	require.ElementsMatch(t, []string{"c1"}, r.MembersOf("User2"))
}

func TestRegistryLeaveLastMemberDropsChannel(t *testing.T) {
	r := NewRegistry()
	r.Register("c1")
	r.Join("c1", "Project7")

	r.Leave("c1", "Project7")

	require.Empty(t, r.MembersOf("Project7"))
	require.Empty(t, r.Channels("c1"))
}

func TestRegistryMembersOfReturnsSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Register("c1")
	r.Join("c1", "Project7")

	snapshot := r.MembersOf("Project7")
	r.Join("c1", "Project8")
	r.Remove("c1")

	// The earlier snapshot is unaffected by later mutations
	require.ElementsMatch(t, []string{"c1"}, snapshot)
}

func TestRegistryConcurrentChurn(t *testing.T) {
	r := NewRegistry()

	const conns = 16
	const iterations = 200

	var wg sync.WaitGroup
	for i := 0; i < conns; i++ {
		conn := fmt.Sprintf("conn-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				r.Register(conn)
				r.Join(conn, "Project7")
				r.Join(conn, UserChannel(int64(j%4)))
				r.MembersOf("Project7")
				r.Channels(conn)
				r.Leave(conn, "Project7")
				r.ClearAll(conn)
				r.Remove(conn)
			}
		}()
	}
	wg.Wait()

	// Every connection finished on Remove, so no state may survive
	require.Empty(t, r.MembersOf("Project7"))
	for i := 0; i < conns; i++ {
		require.False(t, r.Known(fmt.Sprintf("conn-%d", i)))
	}
}
