// Package async provides resumable tasks: functions that suspend
// mid-execution and continue from the exact point of suspension on
// their next invocation, driven entirely by a caller that re-invokes
// them. No goroutine or call stack is dedicated to a Task; its resume
// point is an explicit state id kept in a persistent record.
//
// Key components:
//
//   - Task: one task identity. Its Frame holds the status, the resume
//     point, the published result and the body's persistent State.
//     Every invocation takes a Command, Run or Reset, and returns a
//     Record.
//
//   - Suspend primitives: Frame.Yield, Frame.YieldUntil and YieldFor
//     suspend unconditionally, until a condition holds (always at
//     least once), or until a Timeout expires. Frame.End is the end
//     marker; once reached, further Runs return Done with the final
//     result retained and do not execute the body.
//
//   - Timeout and Clock: a deadline over an externally supplied
//     monotonic counter, with wrapping unsigned arithmetic. Millis
//     and ManualClock are provided.
//
//   - Await and Block: single-step invocation and drive-to-completion.
//     Block occupies the caller until the task is Done; use Await from
//     a loop when other tasks need to make progress.
//
//   - Group and Scheduler: lockstep advancement of several steppers,
//     from inside a parent body or from the top-level loop.
//
//   - Coroutine: the same control protocol over a straight-line body
//     suspended with github.com/webriots/coro.
//
//   - Pipe, Instrument and Metrics: a handoff buffer for producer and
//     consumer tasks, and logging and counters around any Invoker.
//
// All tasks sharing state must be driven from one execution context.
// The package never locks task records; a task invoked again while an
// invocation is in progress panics.
package async
