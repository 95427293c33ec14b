// Package order implements the Order aggregate and the delivery state machine.
//
// Decide is a pure function: given the current order, an Event and the Actor raising
// it, it returns a Decision (target status plus ordered effects) or a typed error from
// errs (InvalidState, Unauthorized, AlreadyAssigned). Callers persist the decision with
// a conditional update and then call Apply.
//
//	pending    --store_review(accept)-->  confirmed   [offer_to_couriers, notify]
//	pending    --store_review(reject)-->  cancelled   [notify]
//	pending    --cancel------------------> cancelled   [notify]
//	confirmed  --cancel------------------> cancelled   [notify, withdraw_offer]
//	confirmed  --courier_claim-----------> preparing   [bind_courier, notify, close_offer]
//	preparing  --start_delivery----------> delivering  [notify]
//	delivering --complete_delivery-------> completed   [record_earning, notify]
package order
